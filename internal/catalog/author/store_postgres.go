package author

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var errAuthorNotFound = apperr.NotFound("Author")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func selectColumns() string {
	return strings.Join(schema.CatalogAuthor.Columns(), ", ")
}

func (repository *PostgresRepository) List(ctx context.Context, f Filter) ([]*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`, selectColumns(), schema.CatalogAuthor.Table)
	args := []any{}

	if !f.IncludeDeleted {
		query += fmt.Sprintf(` AND %s = FALSE`, schema.CatalogAuthor.IsDeleted)
	}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND %s ILIKE $%d`, schema.CatalogAuthor.Name, len(args))
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, schema.CatalogAuthor.Name, schema.CatalogAuthor.ID)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := make([]*Author, 0)
	for rows.Next() {
		a := &Author{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, dberr.Wrap(rows.Err(), "list_authors")
}

func (repository *PostgresRepository) Get(ctx context.Context, id string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), schema.CatalogAuthor.Table, schema.CatalogAuthor.ID,
	)

	a := &Author{}
	err := repository.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Bio, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, a Author) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("create_author: generate id: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
	`,
		schema.CatalogAuthor.Table, schema.CatalogAuthor.ID, schema.CatalogAuthor.Name, schema.CatalogAuthor.Bio,
		schema.CatalogAuthor.IsDeleted, schema.CatalogAuthor.CreatedAt, schema.CatalogAuthor.UpdatedAt,
	)

	if _, err := repository.db.Exec(ctx, query, id.String(), a.Name, a.Bio); err != nil {
		return "", dberr.Wrap(err, "create_author")
	}
	return id.String(), nil
}

func (repository *PostgresRepository) Update(ctx context.Context, id string, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	setClause, args := buildUpdate(patch)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 AND %s = FALSE`,
		schema.CatalogAuthor.Table, setClause, schema.CatalogAuthor.ID, schema.CatalogAuthor.IsDeleted,
	)

	cmd, err := repository.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return dberr.Wrap(err, "update_author")
	}
	if cmd.RowsAffected() == 0 {
		return errAuthorNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogAuthor.Table, schema.CatalogAuthor.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_author")
	}
	if cmd.RowsAffected() == 0 {
		return errAuthorNotFound
	}
	return nil
}

// buildUpdate renders the SET list for patch. Placeholders start at $2; $1 is the id.
func buildUpdate(patch Patch) (string, []any) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 3)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
	}

	if patch.Name != nil {
		add(schema.CatalogAuthor.Name, *patch.Name)
	}
	if patch.Bio != nil {
		add(schema.CatalogAuthor.Bio, *patch.Bio)
	}
	if patch.IsDeleted != nil {
		add(schema.CatalogAuthor.IsDeleted, *patch.IsDeleted)
	}

	sets = append(sets, schema.CatalogAuthor.UpdatedAt+" = NOW()")
	return strings.Join(sets, ", "), args
}
