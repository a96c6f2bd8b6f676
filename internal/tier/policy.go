// Package tier implements the tier policy evaluator: pure decision
// functions over a product's declared tier set and a candidate tier.
// It performs no I/O; callers surface the typed errors as validation
// failures before any store write.
package tier

import (
	"fmt"
	"strings"
)

// TierRequiredError indicates the product declares tiers but the
// candidate tier was absent. Available preserves the product's
// configured order.
type TierRequiredError struct {
	Available []string
}

func (e *TierRequiredError) Error() string {
	return "Missing tier value. Must be " + formatTierList(e.Available)
}

// TierInvalidError indicates the candidate tier is not a member of the
// product's tier set.
type TierInvalidError struct {
	Tier      string
	Available []string
}

func (e *TierInvalidError) Error() string {
	return "Invalid tier value. Must be " + formatTierList(e.Available)
}

// TierNotApplicableError indicates a tier was supplied for a product
// that declares no tiers. This is always rejected, never silently
// stored.
type TierNotApplicableError struct {
	Tier string
}

func (e *TierNotApplicableError) Error() string {
	return fmt.Sprintf("Tier value %q not allowed: product has no tiers", e.Tier)
}

// EmptyTierEntryError indicates a tier set contains an empty or blank
// entry.
type EmptyTierEntryError struct{}

func (e *EmptyTierEntryError) Error() string {
	return "availableTiers cannot contain empty strings"
}

// DuplicateTierError indicates a tier set contains the same name twice.
// Matching is case-sensitive and exact.
type DuplicateTierError struct {
	Tier string
}

func (e *DuplicateTierError) Error() string {
	return "availableTiers cannot contain duplicates"
}

// Evaluate decides whether a candidate tier is acceptable for a product
// with the given tier set. A nil return means accepted: either both are
// absent, or the candidate is a member of the set.
func Evaluate(availableTiers []string, candidate *string) error {
	if len(availableTiers) == 0 {
		if candidate != nil {
			return &TierNotApplicableError{Tier: *candidate}
		}
		return nil
	}

	if candidate == nil {
		return &TierRequiredError{Available: availableTiers}
	}

	for _, t := range availableTiers {
		if t == *candidate {
			return nil
		}
	}
	return &TierInvalidError{Tier: *candidate, Available: availableTiers}
}

// ValidateTierSet checks a tier set supplied on product create/edit:
// entries must be non-blank after trimming whitespace and unique.
func ValidateTierSet(tiers []string) error {
	seen := make(map[string]struct{}, len(tiers))
	for _, t := range tiers {
		if strings.TrimSpace(t) == "" {
			return &EmptyTierEntryError{}
		}
		if _, dup := seen[t]; dup {
			return &DuplicateTierError{Tier: t}
		}
		seen[t] = struct{}{}
	}
	return nil
}

// formatTierList renders a tier set for error messages, e.g.
// "'basic' or 'max'".
func formatTierList(tiers []string) string {
	quoted := make([]string, len(tiers))
	for i, t := range tiers {
		quoted[i] = "'" + t + "'"
	}
	return strings.Join(quoted, " or ")
}
