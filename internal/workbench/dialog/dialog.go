// Package dialog manages the lifecycle of modal form fragments.
//
// A [Dialog] is a plain value: every transition returns the next Dialog, so it
// can live inside a serialized view state between requests. Only
// [Dialog.EnsureLoaded] talks to the outside world, through a [FragmentHost].
package dialog

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// Phase is the lifecycle state of a dialog.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseOpen          Phase = "open"
	PhaseClosed        Phase = "closed"
)

var (
	// ErrNotLoaded is returned when opening a dialog whose fragment was never instantiated.
	ErrNotLoaded = errors.New("dialog: fragment not loaded")

	// ErrUnknownField is returned for a field id outside the fragment.
	ErrUnknownField = errors.New("dialog: unknown field")
)

// Dialog is one lazily instantiated modal form.
type Dialog struct {
	Name      string            `json:"name"`
	Phase     Phase             `json:"phase"`
	Fragment  *Fragment         `json:"fragment,omitempty"`
	Values    map[string]string `json:"values,omitempty"`
	OpenCount int               `json:"open_count"`
}

// New returns an uninitialized dialog for the named fragment.
func New(name string) Dialog {
	return Dialog{Name: name, Phase: PhaseUninitialized}
}

// Loaded reports whether the fragment has been instantiated.
func (d Dialog) Loaded() bool {
	return d.Phase != PhaseUninitialized && d.Fragment != nil
}

// IsOpen reports whether the dialog is currently shown.
func (d Dialog) IsOpen() bool {
	return d.Phase == PhaseOpen
}

// EnsureLoaded instantiates the fragment the first time it is needed. A loaded
// dialog is returned unchanged, whatever its phase.
func (d Dialog) EnsureLoaded(ctx context.Context, host FragmentHost) (Dialog, error) {
	if d.Loaded() {
		return d, nil
	}

	fragment, err := host.Instantiate(ctx, d.Name)
	if err != nil {
		return d, err
	}

	d.Fragment = fragment
	d.Phase = PhaseClosed
	d.Values = blankValues(fragment)
	d.OpenCount = 0
	return d, nil
}

// Open shows a loaded dialog. Opening an open dialog only bumps OpenCount.
func (d Dialog) Open() (Dialog, error) {
	if !d.Loaded() {
		return d, ErrNotLoaded
	}
	d.Phase = PhaseOpen
	d.OpenCount++
	return d, nil
}

// Close hides the dialog and keeps the fragment for reuse.
func (d Dialog) Close() Dialog {
	if d.Phase == PhaseOpen {
		d.Phase = PhaseClosed
	}
	return d
}

// Destroy drops the fragment and every transient value.
func (d Dialog) Destroy() Dialog {
	return New(d.Name)
}

// Value looks a field up by id.
func (d Dialog) Value(id string) (string, error) {
	if !d.hasField(id) {
		return "", fmt.Errorf("%w %q in %s", ErrUnknownField, id, d.Name)
	}
	return d.Values[id], nil
}

// WithValues overwrites the given fields. All ids must belong to the fragment.
func (d Dialog) WithValues(values map[string]string) (Dialog, error) {
	if !d.Loaded() {
		return d, ErrNotLoaded
	}
	next := maps.Clone(d.Values)
	if next == nil {
		next = make(map[string]string, len(values))
	}
	for id, value := range values {
		if !d.hasField(id) {
			return d, fmt.Errorf("%w %q in %s", ErrUnknownField, id, d.Name)
		}
		next[id] = value
	}
	d.Values = next
	return d, nil
}

// Reset blanks every field without unloading the fragment.
func (d Dialog) Reset() Dialog {
	if d.Fragment != nil {
		d.Values = blankValues(d.Fragment)
	}
	return d
}

// Title picks the heading for create or edit mode.
func (d Dialog) Title(edit bool) string {
	if d.Fragment == nil {
		return ""
	}
	if edit {
		return d.Fragment.Titles.Edit
	}
	return d.Fragment.Titles.Create
}

func (d Dialog) hasField(id string) bool {
	if d.Fragment == nil {
		return false
	}
	_, ok := d.Fragment.Field(id)
	return ok
}

func blankValues(fragment *Fragment) map[string]string {
	values := make(map[string]string, len(fragment.Fields))
	for _, field := range fragment.Fields {
		values[field.ID] = ""
	}
	return values
}
