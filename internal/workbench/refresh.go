package workbench

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// refreshAuthors re-queries the active authors. The author selection is
// cleared, so the book list is cleared with it.
func (c *Controller) refreshAuthors(ctx context.Context, s ViewState) ViewState {
	authors, err := c.authors.List(ctx, author.Filter{})
	if err != nil {
		c.log(ctx, s).Error("author_list_refresh_failed", slog.Any("error", err))
		return s.WithError("Failed to load authors: " + apperr.Describe(err))
	}
	return s.BindAuthors(authors).ClearBooks()
}

// bindBooks rebinds the book list to authorID, or clears it when authorID is empty.
func (c *Controller) bindBooks(ctx context.Context, s ViewState, authorID string) ViewState {
	if authorID == "" {
		return s.ClearBooks()
	}

	books, err := c.books.List(ctx, book.Filter{AuthorID: authorID})
	if err != nil {
		c.log(ctx, s).Error("book_list_refresh_failed", slog.String("author_id", authorID), slog.Any("error", err))
		return s.WithError("Error loading books. Please try again.")
	}
	return s.BindBooks(authorID, books)
}
