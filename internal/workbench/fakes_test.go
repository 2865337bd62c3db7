package workbench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/workbench/dialog"
)

// # Author gateway

type authorUpdate struct {
	ID    string
	Patch author.Patch
}

type fakeAuthors struct {
	mu      sync.Mutex
	rows    []*author.Author
	nextID  int
	failing map[string]error

	creates []author.Author
	updates []authorUpdate
	deletes []string
	gets    int
	lists   int
}

func newFakeAuthors(seed ...author.Author) *fakeAuthors {
	f := &fakeAuthors{failing: map[string]error{}}
	for _, a := range seed {
		row := a
		f.rows = append(f.rows, &row)
	}
	return f
}

func (f *fakeAuthors) Create(_ context.Context, a author.Author) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Create"]; err != nil {
		return "", err
	}
	f.creates = append(f.creates, a)
	f.nextID++
	a.ID = fmt.Sprintf("author-%d", f.nextID)
	f.rows = append(f.rows, &a)
	return a.ID, nil
}

func (f *fakeAuthors) Update(_ context.Context, id string, patch author.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Update"]; err != nil {
		return err
	}
	f.updates = append(f.updates, authorUpdate{ID: id, Patch: patch})
	row := f.find(id)
	if row == nil || row.IsDeleted {
		return apperr.NotFound("Author")
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Bio != nil {
		row.Bio = *patch.Bio
	}
	if patch.IsDeleted != nil {
		row.IsDeleted = *patch.IsDeleted
	}
	return nil
}

func (f *fakeAuthors) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Delete"]; err != nil {
		return err
	}
	f.deletes = append(f.deletes, id)
	f.rows = slices.DeleteFunc(f.rows, func(a *author.Author) bool { return a.ID == id })
	return nil
}

func (f *fakeAuthors) Get(_ context.Context, id string) (*author.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if err := f.failing["Get"]; err != nil {
		return nil, err
	}
	row := f.find(id)
	if row == nil || row.IsDeleted {
		return nil, apperr.NotFound("Author")
	}
	copied := *row
	return &copied, nil
}

func (f *fakeAuthors) List(_ context.Context, filter author.Filter) ([]*author.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if err := f.failing["List"]; err != nil {
		return nil, err
	}
	var out []*author.Author
	for _, row := range f.rows {
		if row.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAuthors) find(id string) *author.Author {
	for _, row := range f.rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}

// # Book gateway

type bookUpdate struct {
	ID    string
	Patch book.Patch
}

type fakeBooks struct {
	mu      sync.Mutex
	rows    []*book.Book
	nextID  int
	failing map[string]error

	creates []book.Book
	updates []bookUpdate
	deletes []string
	lists   []string
}

func newFakeBooks(seed ...book.Book) *fakeBooks {
	f := &fakeBooks{failing: map[string]error{}}
	for _, b := range seed {
		row := b
		f.rows = append(f.rows, &row)
	}
	return f
}

func (f *fakeBooks) Create(_ context.Context, b book.Book) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Create"]; err != nil {
		return "", err
	}
	f.creates = append(f.creates, b)
	f.nextID++
	b.ID = fmt.Sprintf("book-%d", f.nextID)
	f.rows = append(f.rows, &b)
	return b.ID, nil
}

func (f *fakeBooks) Update(_ context.Context, id string, patch book.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Update"]; err != nil {
		return err
	}
	f.updates = append(f.updates, bookUpdate{ID: id, Patch: patch})
	row := f.find(id)
	if row == nil {
		return apperr.NotFound("Book")
	}
	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Descr != nil {
		row.Descr = *patch.Descr
	}
	if patch.Stock != nil {
		row.Stock = *patch.Stock
	}
	if patch.Price != nil {
		row.Price = *patch.Price
	}
	if patch.CurrencyCode != nil {
		row.CurrencyCode = *patch.CurrencyCode
	}
	return nil
}

func (f *fakeBooks) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Delete"]; err != nil {
		return err
	}
	f.deletes = append(f.deletes, id)
	f.rows = slices.DeleteFunc(f.rows, func(b *book.Book) bool { return b.ID == id })
	return nil
}

func (f *fakeBooks) Get(_ context.Context, id string) (*book.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing["Get"]; err != nil {
		return nil, err
	}
	row := f.find(id)
	if row == nil {
		return nil, apperr.NotFound("Book")
	}
	copied := *row
	return &copied, nil
}

func (f *fakeBooks) List(_ context.Context, filter book.Filter) ([]*book.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, filter.AuthorID)
	if err := f.failing["List"]; err != nil {
		return nil, err
	}
	var out []*book.Book
	for _, row := range f.rows {
		if row.AuthorID != filter.AuthorID {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeBooks) find(id string) *book.Book {
	for _, row := range f.rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}

// # Fragment host

type countingHost struct {
	catalog *dialog.Catalog
	calls   map[string]int
}

func (h *countingHost) Instantiate(ctx context.Context, name string) (*dialog.Fragment, error) {
	h.calls[name]++
	return h.catalog.Instantiate(ctx, name)
}

// # Fixture

type fixture struct {
	controller *Controller
	authors    *fakeAuthors
	books      *fakeBooks
	host       *countingHost
}

func newFixture(t *testing.T, mode DeleteMode, authors *fakeAuthors, books *fakeBooks) *fixture {
	t.Helper()

	catalog, err := dialog.NewCatalog()
	require.NoError(t, err)

	host := &countingHost{catalog: catalog, calls: map[string]int{}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return &fixture{
		controller: NewController(authors, books, host, mode, logger),
		authors:    authors,
		books:      books,
		host:       host,
	}
}

func leckie() author.Author {
	return author.Author{ID: "a1", Name: "Ann Leckie", Bio: "SF author"}
}

func leGuin() author.Author {
	return author.Author{ID: "a2", Name: "Ursula K. Le Guin", Bio: "Earthsea"}
}

func ancillary() book.Book {
	return book.Book{ID: "b1", AuthorID: "a1", Title: "Ancillary Justice", Stock: 4, Price: "9.99", CurrencyCode: "USD"}
}

func messageTexts(s ViewState) []string {
	texts := make([]string, 0, len(s.Messages))
	for _, m := range s.Messages {
		texts = append(texts, m.Text)
	}
	return texts
}
