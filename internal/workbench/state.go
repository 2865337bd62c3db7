package workbench

import (
	"slices"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/workbench/dialog"
)

// Fragment names served by the dialog catalogue.
const (
	AuthorFragment = "AddAuthorDialog"
	BookFragment   = "AddBookDialog"
)

// Form field ids inside the fragments.
const (
	fieldName     = "nameInput"
	fieldBio      = "bioInput"
	fieldTitle    = "titleInput"
	fieldDescr    = "descrInput"
	fieldStock    = "stockInput"
	fieldPrice    = "priceInput"
	fieldCurrency = "currencyInput"
)

// Kind selects which half of the master-detail view an operation targets.
type Kind string

const (
	KindAuthor Kind = "author"
	KindBook   Kind = "book"
)

// Mode is what a dialog confirm will do.
type Mode string

const (
	ModeNone   Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// EntityDialog pairs a dialog resource with the workflow bookkeeping around it.
type EntityDialog struct {
	Dialog    dialog.Dialog `json:"dialog"`
	Mode      Mode          `json:"mode"`
	Title     string        `json:"title"`
	EditingID string        `json:"editing_id,omitempty"`
}

// Buttons are the enablement flags of the toolbar actions.
type Buttons struct {
	EditAuthor   bool `json:"edit_author"`
	DeleteAuthor bool `json:"delete_author"`
	AddBook      bool `json:"add_book"`
	EditBook     bool `json:"edit_book"`
	DeleteBook   bool `json:"delete_book"`
}

// MessageKind distinguishes a transient toast from a blocking error box.
type MessageKind string

const (
	MessageToast MessageKind = "toast"
	MessageError MessageKind = "error"
)

// Message is user feedback produced by the last action.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// Action is a button of a confirmation box.
type Action string

const (
	ActionOK     Action = "OK"
	ActionCancel Action = "CANCEL"
)

// Confirmation is a destructive action waiting for the user's answer.
type Confirmation struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	TargetID   string   `json:"target_id"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Actions    []Action `json:"actions"`
	Emphasized Action   `json:"emphasized"`
}

// ViewState is everything the workbench remembers about one open view.
//
// Transitions below are pure: they take a state and return the next one.
// The Controller interleaves them with gateway calls.
type ViewState struct {
	SessionID string `json:"session_id"`
	Owner     string `json:"owner"`

	Authors           []*author.Author `json:"authors"`
	SelectedAuthorIDs []string         `json:"selected_author_ids"`
	Books             []*book.Book     `json:"books"`
	BooksAuthorID     string           `json:"books_author_id,omitempty"`
	SelectedBookIDs   []string         `json:"selected_book_ids"`

	AuthorDialog EntityDialog `json:"author_dialog"`
	BookDialog   EntityDialog `json:"book_dialog"`

	Buttons  Buttons       `json:"buttons"`
	Pending  *Confirmation `json:"pending_confirmation,omitempty"`
	Messages []Message     `json:"messages"`
}

// NewViewState returns the empty view of a fresh session.
func NewViewState(sessionID, owner string) ViewState {
	return ViewState{
		SessionID:         sessionID,
		Owner:             owner,
		Authors:           []*author.Author{},
		SelectedAuthorIDs: []string{},
		Books:             []*book.Book{},
		SelectedBookIDs:   []string{},
		AuthorDialog:      EntityDialog{Dialog: dialog.New(AuthorFragment)},
		BookDialog:        EntityDialog{Dialog: dialog.New(BookFragment)},
		Messages:          []Message{},
	}
}

// # Feedback

// BeginAction drops the feedback of the previous action.
func (s ViewState) BeginAction() ViewState {
	s.Messages = []Message{}
	return s
}

// WithToast queues a transient message.
func (s ViewState) WithToast(text string) ViewState {
	s.Messages = append(slices.Clone(s.Messages), Message{Kind: MessageToast, Text: text})
	return s
}

// WithError queues a blocking error message.
func (s ViewState) WithError(text string) ViewState {
	s.Messages = append(slices.Clone(s.Messages), Message{Kind: MessageError, Text: text})
	return s
}

// # Selection

// SelectedAuthor is the single selected author, if exactly one is selected.
func (s ViewState) SelectedAuthor() (*author.Author, bool) {
	if len(s.SelectedAuthorIDs) != 1 {
		return nil, false
	}
	for _, a := range s.Authors {
		if a.ID == s.SelectedAuthorIDs[0] {
			return a, true
		}
	}
	return nil, false
}

// SelectedBook is the single selected book, if exactly one is selected.
func (s ViewState) SelectedBook() (*book.Book, bool) {
	if len(s.SelectedBookIDs) != 1 {
		return nil, false
	}
	for _, b := range s.Books {
		if b.ID == s.SelectedBookIDs[0] {
			return b, true
		}
	}
	return nil, false
}

// SelectAuthors replaces the author selection. Ids not in the bound list are ignored.
func (s ViewState) SelectAuthors(ids []string) ViewState {
	s.SelectedAuthorIDs = keepKnown(ids, func(id string) bool {
		return slices.ContainsFunc(s.Authors, func(a *author.Author) bool { return a.ID == id })
	})
	return s.withButtons()
}

// SelectBooks replaces the book selection. Ids not in the bound list are ignored.
func (s ViewState) SelectBooks(ids []string) ViewState {
	s.SelectedBookIDs = keepKnown(ids, func(id string) bool {
		return slices.ContainsFunc(s.Books, func(b *book.Book) bool { return b.ID == id })
	})
	return s.withButtons()
}

// # List binding

// BindAuthors rebinds the author list and clears the author selection.
func (s ViewState) BindAuthors(authors []*author.Author) ViewState {
	if authors == nil {
		authors = []*author.Author{}
	}
	s.Authors = authors
	s.SelectedAuthorIDs = []string{}
	return s.withButtons()
}

// BindBooks rebinds the book list to authorID and clears the book selection.
func (s ViewState) BindBooks(authorID string, books []*book.Book) ViewState {
	if books == nil {
		books = []*book.Book{}
	}
	s.Books = books
	s.BooksAuthorID = authorID
	s.SelectedBookIDs = []string{}
	return s.withButtons()
}

// ClearBooks empties the detail side.
func (s ViewState) ClearBooks() ViewState {
	return s.BindBooks("", nil)
}

// # Dialogs

// EntityDialog returns the dialog bookkeeping of kind.
func (s ViewState) EntityDialog(kind Kind) EntityDialog {
	if kind == KindBook {
		return s.BookDialog
	}
	return s.AuthorDialog
}

// WithEntityDialog stores d as the dialog of kind.
func (s ViewState) WithEntityDialog(kind Kind, d EntityDialog) ViewState {
	if kind == KindBook {
		s.BookDialog = d
	} else {
		s.AuthorDialog = d
	}
	return s
}

// OpenDialog switches a loaded dialog into mode with the given field values.
func (s ViewState) OpenDialog(kind Kind, mode Mode, editingID string, values map[string]string) (ViewState, error) {
	current := s.EntityDialog(kind)

	d, err := current.Dialog.Reset().WithValues(values)
	if err != nil {
		return s, err
	}
	d, err = d.Open()
	if err != nil {
		return s, err
	}

	return s.WithEntityDialog(kind, EntityDialog{
		Dialog:    d,
		Mode:      mode,
		Title:     d.Title(mode == ModeEdit),
		EditingID: editingID,
	}), nil
}

// WithDialogValues records what the user typed into an open dialog.
func (s ViewState) WithDialogValues(kind Kind, values map[string]string) (ViewState, error) {
	current := s.EntityDialog(kind)
	d, err := current.Dialog.WithValues(values)
	if err != nil {
		return s, err
	}
	current.Dialog = d
	return s.WithEntityDialog(kind, current), nil
}

// CloseDialog closes and destroys the dialog of kind and forgets its mode.
func (s ViewState) CloseDialog(kind Kind) ViewState {
	current := s.EntityDialog(kind)
	return s.WithEntityDialog(kind, EntityDialog{Dialog: current.Dialog.Close().Destroy()})
}

// # Confirmation

// AskConfirmation parks a destructive action until the user answers.
func (s ViewState) AskConfirmation(c Confirmation) ViewState {
	s.Pending = &c
	return s
}

// DropConfirmation forgets the pending confirmation.
func (s ViewState) DropConfirmation() ViewState {
	s.Pending = nil
	return s
}

// # Derived flags

func (s ViewState) withButtons() ViewState {
	singleAuthor := len(s.SelectedAuthorIDs) == 1
	singleBook := len(s.SelectedBookIDs) == 1

	s.Buttons = Buttons{
		EditAuthor:   singleAuthor,
		DeleteAuthor: singleAuthor,
		AddBook:      singleAuthor,
		EditBook:     singleBook,
		DeleteBook:   singleBook,
	}
	return s
}

func keepKnown(ids []string, known func(string) bool) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(kept, id) || !known(id) {
			continue
		}
		kept = append(kept, id)
	}
	return kept
}
