package workbench

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/convert"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

var currencyCase = cases.Upper(language.Und)

// BookForm is what the book dialog submits. Stock arrives as typed text.
type BookForm struct {
	Title    string `json:"title"`
	Descr    string `json:"descr"`
	Stock    string `json:"stock"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

func (f BookForm) values() map[string]string {
	return map[string]string{
		fieldTitle:    f.Title,
		fieldDescr:    f.Descr,
		fieldStock:    f.Stock,
		fieldPrice:    f.Price,
		fieldCurrency: f.Currency,
	}
}

// RefreshBooks re-queries the books of the author the list is bound to.
func (c *Controller) RefreshBooks(ctx context.Context, s ViewState) ViewState {
	return c.bindBooks(ctx, s.BeginAction(), s.BooksAuthorID)
}

// SelectBooks records the book selection.
func (c *Controller) SelectBooks(_ context.Context, s ViewState, ids []string) ViewState {
	return s.BeginAction().SelectBooks(ids)
}

// AddBook opens the book dialog in create mode with empty fields.
func (c *Controller) AddBook(ctx context.Context, s ViewState) ViewState {
	return c.openDialog(ctx, s.BeginAction(), KindBook, ModeCreate, "", nil)
}

// EditBook opens the book dialog on the single selected book.
func (c *Controller) EditBook(ctx context.Context, s ViewState) ViewState {
	s = s.BeginAction()

	if message, bad := selectionProblem(len(s.SelectedBookIDs), "a book", "edit"); bad {
		return s.WithToast(message)
	}

	selected, ok := s.SelectedBook()
	if !ok {
		return s.WithToast("Please select a book to edit.")
	}

	current, err := c.books.Get(ctx, selected.ID)
	if err != nil {
		c.log(ctx, s).Error("book_load_failed", slog.String("book_id", selected.ID), slog.Any("error", err))
		return s.WithError("Failed to load book: " + apperr.Describe(err))
	}

	return c.openDialog(ctx, s, KindBook, ModeEdit, current.ID, map[string]string{
		fieldTitle:    current.Title,
		fieldDescr:    current.Descr,
		fieldStock:    strconv.Itoa(current.Stock),
		fieldPrice:    current.Price,
		fieldCurrency: current.CurrencyCode,
	})
}

// ConfirmBook validates the dialog and creates or updates the book. New
// books are attached to the selected author; without one the action aborts.
func (c *Controller) ConfirmBook(ctx context.Context, s ViewState, form BookForm) ViewState {
	s = s.BeginAction()

	current := s.BookDialog
	if !current.Dialog.IsOpen() || current.Mode == ModeNone {
		return s.WithToast("There is no book dialog to confirm.")
	}

	s, values, err := readFields(s, KindBook, form.values(), fieldTitle, fieldDescr, fieldStock, fieldPrice, fieldCurrency)
	if err != nil {
		c.log(ctx, s).Error("book_form_read_failed", slog.Any("error", err))
		return s.WithError("Could not read the book form.")
	}
	title, descr, stockText := values[0], values[1], values[2]
	price := convert.ToDecimalText(values[3])
	currency := currencyCase.String(values[4])

	validator := &validate.Validator{}
	validator.
		Required(book.FieldTitle, title).
		Required(book.FieldCurrency, currency).
		WholeNumber(book.FieldStock, stockText)

	if validator.Failed(book.FieldTitle) || validator.Failed(book.FieldCurrency) {
		return s.WithToast("Please fill in both Title and Currency.")
	}
	if validator.Failed(book.FieldStock) {
		return s.WithToast("Stock must be a whole number.")
	}
	stock := convert.ToInt(stockText)

	logger := c.log(ctx, s)
	var (
		confirmation string
		boundAuthor  string
	)

	switch current.Mode {
	case ModeEdit:
		err = c.books.Update(ctx, current.EditingID, book.Patch{
			Title:        pointer.To(title),
			Descr:        pointer.To(descr),
			Stock:        pointer.To(stock),
			Price:        pointer.To(price),
			CurrencyCode: pointer.To(currency),
		})
		confirmation = "Book updated successfully!"
		boundAuthor = s.BooksAuthorID
		if err == nil {
			logger.Info("book_updated", slog.String("book_id", current.EditingID))
		}
	default:
		selected, ok := s.SelectedAuthor()
		if !ok {
			return s.WithToast("Please select an author first.")
		}

		var id string
		id, err = c.books.Create(ctx, book.Book{
			AuthorID:     selected.ID,
			Title:        title,
			Descr:        descr,
			Stock:        stock,
			Price:        price,
			CurrencyCode: currency,
		})
		confirmation = "Book created successfully!"
		boundAuthor = selected.ID
		if err == nil {
			logger.Info("book_created", slog.String("book_id", id), slog.String("author_id", selected.ID))
		}
	}

	if err != nil {
		logger.Error("book_save_failed", slog.String("mode", string(current.Mode)), slog.Any("error", err))
		return s.WithError("Failed to save book: " + apperr.Describe(err))
	}

	s = s.WithToast(confirmation).CloseDialog(KindBook)
	return c.bindBooks(ctx, s, boundAuthor)
}

// CancelBook closes and destroys the book dialog.
func (c *Controller) CancelBook(_ context.Context, s ViewState) ViewState {
	return s.BeginAction().CloseDialog(KindBook)
}

// DeleteBook asks for confirmation before deleting the selected book.
func (c *Controller) DeleteBook(_ context.Context, s ViewState) ViewState {
	s = s.BeginAction()

	if message, bad := selectionProblem(len(s.SelectedBookIDs), "a book", "delete"); bad {
		return s.WithToast(message)
	}

	selected, ok := s.SelectedBook()
	if !ok {
		return s.WithToast("Please select a book to delete.")
	}

	return s.AskConfirmation(newConfirmation(KindBook, selected.ID,
		"Confirm Deletion",
		fmt.Sprintf("Are you sure you want to delete the book “%s”?", selected.Title),
	))
}

func (c *Controller) performBookDelete(ctx context.Context, s ViewState, bookID string) ViewState {
	logger := c.log(ctx, s).With(slog.String("book_id", bookID))

	if err := c.books.Delete(ctx, bookID); err != nil {
		logger.Error("book_delete_failed", slog.Any("error", err))
		return s.WithError("Failed to delete book: " + apperr.Describe(err))
	}

	logger.Warn("book_deleted")

	s = s.WithToast("Book deleted successfully!").SelectBooks(nil)
	return c.bindBooks(ctx, s, s.BooksAuthorID)
}
