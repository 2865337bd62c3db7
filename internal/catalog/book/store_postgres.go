package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var errBookNotFound = apperr.NotFound("Book")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns renders price as text so the decimal survives without float rounding.
func selectColumns() string {
	t := schema.CatalogBook
	return strings.Join([]string{
		t.ID, t.AuthorID, t.Title, t.Descr, t.Stock,
		fmt.Sprintf("COALESCE(%s::text, '')", t.Price),
		t.CurrencyCode, t.CreatedAt, t.UpdatedAt,
	}, ", ")
}

func scanBook(row pgx.Row) (*Book, error) {
	b := &Book{}
	err := row.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Descr, &b.Stock, &b.Price, &b.CurrencyCode, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (repository *PostgresRepository) List(ctx context.Context, f Filter) ([]*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		selectColumns(), schema.CatalogBook.Table, schema.CatalogBook.AuthorID,
		schema.CatalogBook.Title, schema.CatalogBook.ID,
	)

	rows, err := repository.db.Query(ctx, query, f.AuthorID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := make([]*Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, dberr.Wrap(rows.Err(), "list_books")
}

func (repository *PostgresRepository) Get(ctx context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns(), schema.CatalogBook.Table, schema.CatalogBook.ID)

	b, err := scanBook(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return b, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, b Book) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("create_book: generate id: %w", err)
	}

	t := schema.CatalogBook
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6::text, '')::numeric, $7, NOW(), NOW())
	`,
		t.Table, t.ID, t.AuthorID, t.Title, t.Descr, t.Stock, t.Price, t.CurrencyCode, t.CreatedAt, t.UpdatedAt,
	)

	_, err = repository.db.Exec(ctx, query, id.String(), b.AuthorID, b.Title, b.Descr, b.Stock, b.Price, b.CurrencyCode)
	if err != nil {
		return "", dberr.Wrap(err, "create_book")
	}
	return id.String(), nil
}

func (repository *PostgresRepository) Update(ctx context.Context, id string, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	setClause, args := buildUpdate(patch)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`, schema.CatalogBook.Table, setClause, schema.CatalogBook.ID)

	cmd, err := repository.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}
	if cmd.RowsAffected() == 0 {
		return errBookNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogBook.Table, schema.CatalogBook.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if cmd.RowsAffected() == 0 {
		return errBookNotFound
	}
	return nil
}

// buildUpdate renders the SET list for patch. Placeholders start at $2; $1 is the id.
func buildUpdate(patch Patch) (string, []any) {
	t := schema.CatalogBook
	sets := make([]string, 0, 6)
	args := make([]any, 0, 5)

	add := func(format string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(format, len(args)+1))
	}

	if patch.Title != nil {
		add(t.Title+" = $%d", *patch.Title)
	}
	if patch.Descr != nil {
		add(t.Descr+" = $%d", *patch.Descr)
	}
	if patch.Stock != nil {
		add(t.Stock+" = $%d", *patch.Stock)
	}
	if patch.Price != nil {
		add(t.Price+" = NULLIF($%d::text, '')::numeric", *patch.Price)
	}
	if patch.CurrencyCode != nil {
		add(t.CurrencyCode+" = $%d", *patch.CurrencyCode)
	}

	sets = append(sets, t.UpdatedAt+" = NOW()")
	return strings.Join(sets, ", "), args
}
