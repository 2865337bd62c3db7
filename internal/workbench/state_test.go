package workbench

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/catalog/author"
	"github.com/taibuivan/bookshelf/internal/catalog/book"
)

func boundState() ViewState {
	a1, a2 := leckie(), leGuin()
	b1 := ancillary()
	return NewViewState("s1", "u1").
		BindAuthors([]*author.Author{&a1, &a2}).
		BindBooks("a1", []*book.Book{&b1})
}

func TestViewState_SelectAuthors(t *testing.T) {
	s := boundState()

	got := s.SelectAuthors([]string{"a2", "missing", "a2", ""})
	if diff := cmp.Diff([]string{"a2"}, got.SelectedAuthorIDs); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}

	want := Buttons{EditAuthor: true, DeleteAuthor: true, AddBook: true}
	if diff := cmp.Diff(want, got.Buttons); diff != "" {
		t.Errorf("buttons mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, s.SelectedAuthorIDs, "transitions do not mutate their receiver")
}

func TestViewState_Buttons(t *testing.T) {
	s := boundState()

	tests := []struct {
		name    string
		authors []string
		books   []string
		want    Buttons
	}{
		{"nothing", nil, nil, Buttons{}},
		{"one author", []string{"a1"}, nil, Buttons{EditAuthor: true, DeleteAuthor: true, AddBook: true}},
		{"two authors", []string{"a1", "a2"}, nil, Buttons{}},
		{"one book", nil, []string{"b1"}, Buttons{EditBook: true, DeleteBook: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SelectAuthors(tt.authors).SelectBooks(tt.books)
			if diff := cmp.Diff(tt.want, got.Buttons); diff != "" {
				t.Errorf("buttons mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestViewState_RebindClearsSelection(t *testing.T) {
	s := boundState().SelectAuthors([]string{"a1"}).SelectBooks([]string{"b1"})

	rebound := s.BindBooks("a1", nil)
	assert.Empty(t, rebound.SelectedBookIDs)
	assert.Equal(t, []*book.Book{}, rebound.Books)
	assert.False(t, rebound.Buttons.EditBook)

	cleared := s.ClearBooks()
	assert.Equal(t, "", cleared.BooksAuthorID)

	authors := s.BindAuthors(s.Authors)
	assert.Empty(t, authors.SelectedAuthorIDs)
	assert.Equal(t, Buttons{EditBook: true, DeleteBook: true}, authors.Buttons)
}

func TestViewState_Messages(t *testing.T) {
	s := NewViewState("s1", "u1").WithToast("one").WithError("two")

	want := []Message{{Kind: MessageToast, Text: "one"}, {Kind: MessageError, Text: "two"}}
	if diff := cmp.Diff(want, s.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, s.BeginAction().Messages)
}

func TestViewState_OpenDialogRequiresLoad(t *testing.T) {
	s := NewViewState("s1", "u1")

	_, err := s.OpenDialog(KindAuthor, ModeCreate, "", nil)
	assert.Error(t, err)
}

func TestViewState_Confirmation(t *testing.T) {
	s := NewViewState("s1", "u1")
	c := newConfirmation(KindAuthor, "a1", "Confirm Delete", "sure?")

	asked := s.AskConfirmation(c)
	assert.Equal(t, &c, asked.Pending)
	assert.Nil(t, asked.DropConfirmation().Pending)
	assert.NotEmpty(t, c.ID)
}
