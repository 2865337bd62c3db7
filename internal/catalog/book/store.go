package book

import "context"

// Repository is the book gateway.
type Repository interface {
	Create(ctx context.Context, b Book) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Book, error)
	List(ctx context.Context, f Filter) ([]*Book, error)
}
