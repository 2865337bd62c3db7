package workbench

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/workbench/dialog"
)

// Strict mocks fail the test on any call that was not expected, which pins
// down exactly which gateway calls an operation makes.
func newStrictController(t *testing.T) (*Controller, *MockAuthorRepository, *MockBookRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	authors := NewMockAuthorRepository(ctrl)
	books := NewMockBookRepository(ctrl)

	catalog, err := dialog.NewCatalog()
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewController(authors, books, catalog, DeleteSoft, logger), authors, books
}

func twoAuthors() ViewState {
	a1, a2 := leckie(), leGuin()
	return NewViewState("s1", "u1").BindAuthors([]*author.Author{&a1, &a2})
}

func TestGuards_NoGatewayCalls(t *testing.T) {
	ctx := context.Background()
	controller, _, _ := newStrictController(t)

	for _, selection := range [][]string{nil, {"a1", "a2"}} {
		s := twoAuthors().SelectAuthors(selection)

		assert.Len(t, controller.EditAuthor(ctx, s).Messages, 1)
		assert.Len(t, controller.DeleteAuthor(ctx, s).Messages, 1)
		assert.Len(t, controller.EditBook(ctx, s).Messages, 1)
		assert.Len(t, controller.DeleteBook(ctx, s).Messages, 1)
	}
}

func TestConfirmAuthor_CreateCallsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	controller, authors, _ := newStrictController(t)

	want := author.Author{Name: "Ann Leckie", Bio: "SF author"}
	created := want
	created.ID = "a1"

	gomock.InOrder(
		authors.EXPECT().Create(gomock.Any(), want).Return("a1", nil).Times(1),
		authors.EXPECT().List(gomock.Any(), author.Filter{}).Return([]*author.Author{&created}, nil).Times(1),
	)

	s := controller.AddAuthor(ctx, NewViewState("s1", "u1"))
	s = controller.ConfirmAuthor(ctx, s, AuthorForm{Name: "Ann Leckie", Bio: "SF author"})

	assert.Equal(t, []string{"Author created successfully!"}, messageTexts(s))
	assert.False(t, s.AuthorDialog.Dialog.IsOpen())
}

func TestConfirmAuthor_EditNeverCreates(t *testing.T) {
	ctx := context.Background()
	controller, authors, books := newStrictController(t)

	current := leckie()
	renamed := "A. Leckie"
	bio := current.Bio

	books.EXPECT().List(gomock.Any(), book.Filter{AuthorID: "a1"}).Return(nil, nil)
	authors.EXPECT().Get(gomock.Any(), "a1").Return(&current, nil)
	authors.EXPECT().Update(gomock.Any(), "a1", author.Patch{Name: &renamed, Bio: &bio}).Return(nil)
	authors.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*author.Author{&current}, nil)

	s := controller.SelectAuthors(ctx, twoAuthors(), []string{"a1"})
	s = controller.EditAuthor(ctx, s)
	s = controller.ConfirmAuthor(ctx, s, AuthorForm{Name: renamed, Bio: bio})

	assert.Equal(t, []string{"Author updated successfully!"}, messageTexts(s))
}

func TestConfirmBook_NoAuthorNoCall(t *testing.T) {
	ctx := context.Background()
	controller, _, _ := newStrictController(t)

	s := controller.AddBook(ctx, NewViewState("s1", "u1"))
	s = controller.ConfirmBook(ctx, s, BookForm{Title: "Provenance", Currency: "USD"})

	assert.Equal(t, []string{"Please select an author first."}, messageTexts(s))
}
