// Package workbench drives the author/book master-detail administration view.
//
// # Architecture
//
// A [ViewState] is owned by one session and only changes through the
// [Controller]. Every operation has the same shape:
//
//	state -> pure transition(s) -> at most one gateway mutation -> refresh -> state
//
// Failures never escape an operation. Validation problems become toasts,
// gateway errors become error messages, and the returned state is otherwise
// the state the operation started from.
package workbench

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/workbench/dialog"
)

//go:generate mockgen -destination=mock_author_repository_test.go -package=workbench -mock_names=Repository=MockAuthorRepository github.com/taibuivan/bookshelf/internal/catalog/author Repository
//go:generate mockgen -destination=mock_book_repository_test.go -package=workbench -mock_names=Repository=MockBookRepository github.com/taibuivan/bookshelf/internal/catalog/book Repository

// DeleteMode selects how authors are removed.
type DeleteMode string

const (
	// DeleteSoft flags the author as deleted; the list query hides it.
	DeleteSoft DeleteMode = "soft"
	// DeleteHard removes the author row and, by cascade, its books.
	DeleteHard DeleteMode = "hard"
)

// Controller implements the author and book workflows.
type Controller struct {
	authors    author.Repository
	books      book.Repository
	fragments  dialog.FragmentHost
	deleteMode DeleteMode
	logger     *slog.Logger
}

// NewController wires the workflows to their gateways.
func NewController(authors author.Repository, books book.Repository, fragments dialog.FragmentHost, deleteMode DeleteMode, logger *slog.Logger) *Controller {
	if deleteMode != DeleteHard {
		deleteMode = DeleteSoft
	}
	return &Controller{
		authors:    authors,
		books:      books,
		fragments:  fragments,
		deleteMode: deleteMode,
		logger:     logger,
	}
}

// Open builds the initial view of a new session: the author list, nothing selected.
func (c *Controller) Open(ctx context.Context, sessionID, owner string) ViewState {
	return c.refreshAuthors(ctx, NewViewState(sessionID, owner))
}

// Resolve answers the pending confirmation. A stale confirmation id leaves
// the pending box in place.
func (c *Controller) Resolve(ctx context.Context, s ViewState, confirmationID string, action Action) ViewState {
	s = s.BeginAction()

	pending := s.Pending
	if pending == nil {
		return s.WithToast("Nothing to confirm.")
	}
	if confirmationID != pending.ID {
		return s.WithToast("This confirmation is no longer current.")
	}

	s = s.DropConfirmation()
	if action != ActionOK {
		return s
	}

	switch pending.Kind {
	case KindAuthor:
		return c.performAuthorDelete(ctx, s, pending.TargetID)
	case KindBook:
		return c.performBookDelete(ctx, s, pending.TargetID)
	default:
		return s
	}
}

// openDialog lazily loads the fragment of kind and opens it in mode.
func (c *Controller) openDialog(ctx context.Context, s ViewState, kind Kind, mode Mode, editingID string, values map[string]string) ViewState {
	current := s.EntityDialog(kind)

	loaded, err := current.Dialog.EnsureLoaded(ctx, c.fragments)
	if err != nil {
		c.log(ctx, s).Error("dialog_load_failed", slog.String("fragment", current.Dialog.Name), slog.Any("error", err))
		return s.WithError("Could not open the dialog.")
	}
	current.Dialog = loaded
	s = s.WithEntityDialog(kind, current)

	next, err := s.OpenDialog(kind, mode, editingID, values)
	if err != nil {
		c.log(ctx, s).Error("dialog_open_failed", slog.String("fragment", current.Dialog.Name), slog.Any("error", err))
		return s.WithError("Could not open the dialog.")
	}
	return next
}

// readFields stores the submitted form in the dialog and reads back the
// normalized values in the order of ids.
func readFields(s ViewState, kind Kind, submitted map[string]string, ids ...string) (ViewState, []string, error) {
	s, err := s.WithDialogValues(kind, submitted)
	if err != nil {
		return s, nil, err
	}

	d := s.EntityDialog(kind).Dialog
	values := make([]string, len(ids))
	for i, id := range ids {
		raw, err := d.Value(id)
		if err != nil {
			return s, nil, err
		}
		values[i] = cleanInput(raw)
	}
	return s, values, nil
}

// cleanInput trims and NFC-normalizes a form value.
func cleanInput(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// selectionProblem returns the message for a selection that is not exactly one item.
func selectionProblem(count int, noun, verb string) (string, bool) {
	switch {
	case count == 0:
		return fmt.Sprintf("Please select %s to %s.", noun, verb), true
	case count > 1:
		return fmt.Sprintf("Please select only one %s to %s.", strings.TrimPrefix(strings.TrimPrefix(noun, "an "), "a "), verb), true
	default:
		return "", false
	}
}

func newConfirmation(kind Kind, targetID, title, text string) Confirmation {
	return Confirmation{
		ID:         uuid.NewString(),
		Kind:       kind,
		TargetID:   targetID,
		Title:      title,
		Text:       text,
		Actions:    []Action{ActionOK, ActionCancel},
		Emphasized: ActionCancel,
	}
}

func (c *Controller) log(ctx context.Context, s ViewState) *slog.Logger {
	return c.logger.With(
		slog.String("session_id", s.SessionID),
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
	)
}
