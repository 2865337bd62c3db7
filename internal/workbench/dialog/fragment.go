package dialog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed fragments/*.yaml
var builtinFragments embed.FS

// Field describes one input control inside a fragment.
type Field struct {
	ID        string `yaml:"id"        json:"id"`
	Label     string `yaml:"label"     json:"label"`
	Kind      string `yaml:"kind"      json:"kind,omitempty"`
	Required  bool   `yaml:"required"  json:"required,omitempty"`
	Multiline bool   `yaml:"multiline" json:"multiline,omitempty"`
	MaxLength int    `yaml:"maxLength" json:"max_length,omitempty"`
}

// Titles holds the dialog heading per mode.
type Titles struct {
	Create string `yaml:"create" json:"create"`
	Edit   string `yaml:"edit"   json:"edit"`
}

// Fragment is an instantiated form definition.
type Fragment struct {
	Name   string  `yaml:"-"      json:"name"`
	Titles Titles  `yaml:"titles" json:"titles"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field returns the field with the given id.
func (f *Fragment) Field(id string) (Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// FragmentHost instantiates fragments by name.
type FragmentHost interface {
	Instantiate(ctx context.Context, name string) (*Fragment, error)
}

// Catalog is a FragmentHost backed by YAML fragment files.
type Catalog struct {
	fragments map[string]Fragment
}

type catalogFile struct {
	Fragments map[string]Fragment `yaml:"fragments"`
}

// NewCatalog loads the built-in fragment definitions.
func NewCatalog() (*Catalog, error) {
	return LoadCatalog(builtinFragments, "fragments")
}

// LoadCatalog parses every *.yaml file under dir in fsys. Later files may not
// redefine a fragment name.
func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, dir+"/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("dialog: list fragments: %w", err)
	}
	sort.Strings(paths)

	catalog := &Catalog{fragments: make(map[string]Fragment)}
	for _, path := range paths {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("dialog: read %s: %w", path, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("dialog: parse %s: %w", path, err)
		}

		for name, fragment := range file.Fragments {
			if _, dup := catalog.fragments[name]; dup {
				return nil, fmt.Errorf("dialog: fragment %q defined twice (%s)", name, path)
			}
			if err := checkFragment(name, fragment); err != nil {
				return nil, fmt.Errorf("dialog: %s: %w", path, err)
			}
			fragment.Name = name
			catalog.fragments[name] = fragment
		}
	}

	return catalog, nil
}

func checkFragment(name string, fragment Fragment) error {
	if len(fragment.Fields) == 0 {
		return fmt.Errorf("fragment %q has no fields", name)
	}
	seen := make(map[string]struct{}, len(fragment.Fields))
	for _, field := range fragment.Fields {
		if field.ID == "" {
			return fmt.Errorf("fragment %q has a field without id", name)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("fragment %q repeats field %q", name, field.ID)
		}
		seen[field.ID] = struct{}{}
	}
	return nil
}

// Instantiate returns a private copy of the named fragment.
func (c *Catalog) Instantiate(_ context.Context, name string) (*Fragment, error) {
	fragment, ok := c.fragments[name]
	if !ok {
		return nil, fmt.Errorf("dialog: unknown fragment %q", name)
	}

	fragment.Fields = append([]Field(nil), fragment.Fields...)
	return &fragment, nil
}
