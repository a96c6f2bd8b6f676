package tier

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestEvaluate_UntieredProduct(t *testing.T) {
	t.Run("no tier accepted", func(t *testing.T) {
		if err := Evaluate(nil, nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("tier rejected", func(t *testing.T) {
		err := Evaluate(nil, strPtr("max"))
		var notApplicable *TierNotApplicableError
		if !errors.As(err, &notApplicable) {
			t.Fatalf("expected TierNotApplicableError, got %v", err)
		}
		if notApplicable.Tier != "max" {
			t.Fatalf("expected offending tier 'max', got %q", notApplicable.Tier)
		}
	})

	t.Run("empty set behaves like absent set", func(t *testing.T) {
		if err := Evaluate([]string{}, nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}

func TestEvaluate_TieredProduct(t *testing.T) {
	tiers := []string{"basic", "max"}

	t.Run("member accepted", func(t *testing.T) {
		if err := Evaluate(tiers, strPtr("max")); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("missing tier required", func(t *testing.T) {
		err := Evaluate(tiers, nil)
		var required *TierRequiredError
		if !errors.As(err, &required) {
			t.Fatalf("expected TierRequiredError, got %v", err)
		}
		if len(required.Available) != 2 || required.Available[0] != "basic" || required.Available[1] != "max" {
			t.Fatalf("expected tier names in configured order, got %v", required.Available)
		}
		if err.Error() != "Missing tier value. Must be 'basic' or 'max'" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})

	t.Run("non-member rejected", func(t *testing.T) {
		err := Evaluate(tiers, strPtr("premium"))
		var invalid *TierInvalidError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected TierInvalidError, got %v", err)
		}
		if invalid.Tier != "premium" {
			t.Fatalf("expected offending tier 'premium', got %q", invalid.Tier)
		}
		if err.Error() != "Invalid tier value. Must be 'basic' or 'max'" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		err := Evaluate(tiers, strPtr("Basic"))
		var invalid *TierInvalidError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected TierInvalidError, got %v", err)
		}
	})
}

func TestValidateTierSet(t *testing.T) {
	t.Run("valid set", func(t *testing.T) {
		if err := ValidateTierSet([]string{"basic", "max"}); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("empty set is valid", func(t *testing.T) {
		if err := ValidateTierSet(nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("blank entry rejected", func(t *testing.T) {
		err := ValidateTierSet([]string{"basic", "  "})
		var empty *EmptyTierEntryError
		if !errors.As(err, &empty) {
			t.Fatalf("expected EmptyTierEntryError, got %v", err)
		}
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		err := ValidateTierSet([]string{"basic", "max", "basic"})
		var dup *DuplicateTierError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateTierError, got %v", err)
		}
		if dup.Tier != "basic" {
			t.Fatalf("expected duplicate 'basic', got %q", dup.Tier)
		}
	})

	t.Run("case differs is not a duplicate", func(t *testing.T) {
		if err := ValidateTierSet([]string{"basic", "Basic"}); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}
