// Package author holds the Author entity and its gateway to the catalogue store.
package author

import (
	"time"

	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// Author is a writer listed in the master side of the workbench.
type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows an author listing.
type Filter struct {
	Query          string // case-insensitive substring of name
	IncludeDeleted bool   // soft-deleted rows are hidden unless set
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name      *string
	Bio       *string
	IsDeleted *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.IsDeleted == nil
}

// SoftDelete is the patch that flags an author as deleted.
func SoftDelete() Patch {
	return Patch{IsDeleted: pointer.To(true)}
}

// Global field names for validation
const (
	FieldName = "name"
	FieldBio  = "bio"
)
