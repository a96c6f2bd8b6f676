package models

import (
	"time"

	"github.com/google/uuid"
)

// Artifact represents a versioned downloadable file associated with a
// Product. At most one artifact exists per (ProductID, Version) pair;
// re-uploading for the same pair replaces the file in place and keeps
// the existing ID.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	ProductID   string    `json:"productId"`
	Version     string    `json:"version"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"` // never exposed to callers
	SHA256      string    `json:"sha256"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewArtifact creates a new Artifact with a freshly minted ID.
func NewArtifact(productID, version, filename, storagePath, sha256 string) *Artifact {
	return &Artifact{
		ID:          uuid.New(),
		ProductID:   productID,
		Version:     version,
		Filename:    filename,
		StoragePath: storagePath,
		SHA256:      sha256,
		CreatedAt:   time.Now(),
	}
}
