package workbench

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// AuthorForm is what the author dialog submits.
type AuthorForm struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (f AuthorForm) values() map[string]string {
	return map[string]string{fieldName: f.Name, fieldBio: f.Bio}
}

// SelectAuthors records the author selection and rebinds the book list to
// the single selected author, or clears it.
func (c *Controller) SelectAuthors(ctx context.Context, s ViewState, ids []string) ViewState {
	s = s.BeginAction().SelectAuthors(ids)

	selected, ok := s.SelectedAuthor()
	if !ok {
		return s.ClearBooks()
	}
	return c.bindBooks(ctx, s, selected.ID)
}

// AddAuthor opens the author dialog in create mode with empty fields.
func (c *Controller) AddAuthor(ctx context.Context, s ViewState) ViewState {
	return c.openDialog(ctx, s.BeginAction(), KindAuthor, ModeCreate, "", nil)
}

// EditAuthor opens the author dialog on the single selected author.
func (c *Controller) EditAuthor(ctx context.Context, s ViewState) ViewState {
	s = s.BeginAction()

	if message, bad := selectionProblem(len(s.SelectedAuthorIDs), "an author", "edit"); bad {
		return s.WithToast(message)
	}

	selected, ok := s.SelectedAuthor()
	if !ok {
		return s.WithToast("Please select an author to edit.")
	}

	current, err := c.authors.Get(ctx, selected.ID)
	if err != nil {
		c.log(ctx, s).Error("author_load_failed", slog.String("author_id", selected.ID), slog.Any("error", err))
		return s.WithError("Failed to load author: " + apperr.Describe(err))
	}

	return c.openDialog(ctx, s, KindAuthor, ModeEdit, current.ID, map[string]string{
		fieldName: current.Name,
		fieldBio:  current.Bio,
	})
}

// ConfirmAuthor validates the dialog and creates or updates the author.
// On failure the dialog stays open with what the user typed.
func (c *Controller) ConfirmAuthor(ctx context.Context, s ViewState, form AuthorForm) ViewState {
	s = s.BeginAction()

	current := s.AuthorDialog
	if !current.Dialog.IsOpen() || current.Mode == ModeNone {
		return s.WithToast("There is no author dialog to confirm.")
	}

	s, values, err := readFields(s, KindAuthor, form.values(), fieldName, fieldBio)
	if err != nil {
		c.log(ctx, s).Error("author_form_read_failed", slog.Any("error", err))
		return s.WithError("Could not read the author form.")
	}
	name, bio := values[0], values[1]

	validator := &validate.Validator{}
	validator.Required(author.FieldName, name).Required(author.FieldBio, bio)
	if validator.HasErrors() {
		return s.WithToast("Please fill in both Name and Bio.")
	}

	logger := c.log(ctx, s)
	var confirmation string

	switch current.Mode {
	case ModeEdit:
		err = c.authors.Update(ctx, current.EditingID, author.Patch{Name: pointer.To(name), Bio: pointer.To(bio)})
		confirmation = "Author updated successfully!"
		if err == nil {
			logger.Info("author_updated", slog.String("author_id", current.EditingID))
		}
	default:
		var id string
		id, err = c.authors.Create(ctx, author.Author{Name: name, Bio: bio})
		confirmation = "Author created successfully!"
		if err == nil {
			logger.Info("author_created", slog.String("author_id", id), slog.String("name", name))
		}
	}

	if err != nil {
		logger.Error("author_save_failed", slog.String("mode", string(current.Mode)), slog.Any("error", err))
		return s.WithError("Failed to save author: " + apperr.Describe(err))
	}

	s = s.WithToast(confirmation)
	s = c.refreshAuthors(ctx, s)
	return s.CloseDialog(KindAuthor)
}

// CancelAuthor closes and destroys the author dialog.
func (c *Controller) CancelAuthor(_ context.Context, s ViewState) ViewState {
	return s.BeginAction().CloseDialog(KindAuthor)
}

// DeleteAuthor asks for confirmation before deleting the selected author.
func (c *Controller) DeleteAuthor(_ context.Context, s ViewState) ViewState {
	s = s.BeginAction()

	if message, bad := selectionProblem(len(s.SelectedAuthorIDs), "an author", "delete"); bad {
		return s.WithToast(message)
	}

	selected, ok := s.SelectedAuthor()
	if !ok {
		return s.WithToast("Please select an author to delete.")
	}

	return s.AskConfirmation(newConfirmation(KindAuthor, selected.ID,
		"Confirm Delete",
		fmt.Sprintf("Are you sure you want to delete author “%s”?", selected.Name),
	))
}

func (c *Controller) performAuthorDelete(ctx context.Context, s ViewState, authorID string) ViewState {
	logger := c.log(ctx, s).With(slog.String("author_id", authorID), slog.String("mode", string(c.deleteMode)))

	var (
		err  error
		done string
	)
	if c.deleteMode == DeleteHard {
		err = c.authors.Delete(ctx, authorID)
		done = "Author permanently deleted!"
	} else {
		err = c.authors.Update(ctx, authorID, author.SoftDelete())
		done = "Author soft-deleted successfully!"
	}

	if err != nil {
		logger.Error("author_delete_failed", slog.Any("error", err))
		return s.WithError("Failed to delete author: " + apperr.Describe(err))
	}

	logger.Warn("author_deleted")

	s = s.WithToast(done).SelectAuthors(nil).ClearBooks()
	return c.refreshAuthors(ctx, s)
}

// RefreshAuthors re-queries the author list. Selections are cleared.
func (c *Controller) RefreshAuthors(ctx context.Context, s ViewState) ViewState {
	return c.refreshAuthors(ctx, s.BeginAction())
}
