package author

import "context"

// Repository is the author gateway. The workbench depends on nothing else.
type Repository interface {
	Create(ctx context.Context, a Author) (string, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Author, error)
	List(ctx context.Context, f Filter) ([]*Author, error)
}
