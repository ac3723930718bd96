package semester

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"vtuportal/internal/domain"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

type catalogueFile struct {
	Semesters []Spec `yaml:"semesters"`
}

// Catalogue is a read-only set of semester configurations keyed by id.
type Catalogue struct {
	byID  map[string]*Config
	order []string
}

// NewCatalogue builds a catalogue from already-validated configurations.
func NewCatalogue(configs ...*Config) (*Catalogue, error) {
	cat := &Catalogue{byID: make(map[string]*Config, len(configs))}
	for _, c := range configs {
		if _, dup := cat.byID[c.ID()]; dup {
			return nil, fmt.Errorf("%w: duplicate semester id %s", domain.ErrInvalidCatalogue, c.ID())
		}
		cat.byID[c.ID()] = c
		cat.order = append(cat.order, c.ID())
	}
	if len(cat.order) == 0 {
		return nil, fmt.Errorf("%w: no semesters defined", domain.ErrInvalidCatalogue)
	}
	return cat, nil
}

// Load parses a YAML catalogue.
func Load(r io.Reader) (*Catalogue, error) {
	var f catalogueFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decoding yaml: %v", domain.ErrInvalidCatalogue, err)
	}

	configs := make([]*Config, 0, len(f.Semesters))
	for _, spec := range f.Semesters {
		c, err := New(spec)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return NewCatalogue(configs...)
}

// LoadFile reads a catalogue from path, or the built-in catalogue when path is empty.
func LoadFile(path string) (*Catalogue, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening semester catalogue: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Default returns the catalogue compiled into the binary.
func Default() (*Catalogue, error) {
	return Load(bytes.NewReader(defaultCatalogue))
}

// Get returns the configuration for id.
func (c *Catalogue) Get(id string) (*Config, error) {
	cfg, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSemester, id)
	}
	return cfg, nil
}

// ByLabel returns the configuration whose label is label.
func (c *Catalogue) ByLabel(label string) (*Config, bool) {
	for _, id := range c.order {
		if c.byID[id].Label() == label {
			return c.byID[id], true
		}
	}
	return nil, false
}

// List returns all configurations in file order.
func (c *Catalogue) List() []*Config {
	out := make([]*Config, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the semester ids sorted lexically.
func (c *Catalogue) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	sort.Strings(ids)
	return ids
}
