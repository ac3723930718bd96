// Package semester holds the per-semester course configuration used by the
// extractor and the grade evaluator. Configurations are immutable once built.
package semester

import (
	"fmt"
	"regexp"

	"vtuportal/internal/domain"
)

var codeRe = regexp.MustCompile(`^[A-Z0-9]+$`)

// SubjectSpec is one course entry in a catalogue file.
// A nil Credit means the code is recognised but carries no credit weight.
type SubjectSpec struct {
	Code   string `yaml:"code" json:"code"`
	Credit *int   `yaml:"credit" json:"credit,omitempty"`
}

// Spec is the serialised form of a semester configuration.
type Spec struct {
	ID                 string        `yaml:"id" json:"id"`
	Label              string        `yaml:"label" json:"label"`
	NameSuffixStrip    string        `yaml:"name_suffix_strip" json:"name_suffix_strip,omitempty"`
	StrictCreditLookup bool          `yaml:"strict_credit_lookup" json:"strict_credit_lookup"`
	Subjects           []SubjectSpec `yaml:"subjects" json:"subjects"`
}

// Config is an immutable semester configuration: the course-code enumeration,
// the credit table and the optional name cleanup rule.
type Config struct {
	id          string
	label       string
	nameSuffix  string
	strict      bool
	codes       []string
	credits     map[string]int
	totalCredit int
}

// New validates spec and builds a Config from it.
func New(spec Spec) (*Config, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("%w: semester id is required", domain.ErrInvalidCatalogue)
	}
	if spec.Label == "" {
		return nil, fmt.Errorf("%w: semester %s: label is required", domain.ErrInvalidCatalogue, spec.ID)
	}
	if len(spec.Subjects) == 0 {
		return nil, fmt.Errorf("%w: semester %s: at least one subject is required", domain.ErrInvalidCatalogue, spec.ID)
	}

	c := &Config{
		id:         spec.ID,
		label:      spec.Label,
		nameSuffix: spec.NameSuffixStrip,
		strict:     spec.StrictCreditLookup,
		codes:      make([]string, 0, len(spec.Subjects)),
		credits:    make(map[string]int, len(spec.Subjects)),
	}
	seen := make(map[string]bool, len(spec.Subjects))
	for _, s := range spec.Subjects {
		if !codeRe.MatchString(s.Code) {
			return nil, fmt.Errorf("%w: semester %s: invalid course code %q", domain.ErrInvalidCatalogue, spec.ID, s.Code)
		}
		if seen[s.Code] {
			return nil, fmt.Errorf("%w: semester %s: duplicate course code %s", domain.ErrInvalidCatalogue, spec.ID, s.Code)
		}
		seen[s.Code] = true
		c.codes = append(c.codes, s.Code)

		if s.Credit == nil {
			continue
		}
		if *s.Credit < 0 {
			return nil, fmt.Errorf("%w: semester %s: negative credit for %s", domain.ErrInvalidCatalogue, spec.ID, s.Code)
		}
		c.credits[s.Code] = *s.Credit
		c.totalCredit += *s.Credit
	}
	return c, nil
}

// MustNew is New for fixtures known to be valid.
func MustNew(spec Spec) *Config {
	c, err := New(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) ID() string    { return c.id }
func (c *Config) Label() string { return c.label }

// NameSuffixStrip is the exact suffix removed once from extracted names, or "".
func (c *Config) NameSuffixStrip() string { return c.nameSuffix }

// StrictCreditLookup reports whether a code without a credit is an error
// instead of weighing zero.
func (c *Config) StrictCreditLookup() bool { return c.strict }

// Codes returns the course-code enumeration in catalogue order.
func (c *Config) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Credit returns the credit weight for code and whether the code has one.
func (c *Config) Credit(code string) (int, bool) {
	credit, ok := c.credits[code]
	return credit, ok
}

// TotalCredits is the sum of all configured credit weights.
func (c *Config) TotalCredits() int { return c.totalCredit }

// Spec returns the serialisable form of c.
func (c *Config) Spec() Spec {
	spec := Spec{
		ID:                 c.id,
		Label:              c.label,
		NameSuffixStrip:    c.nameSuffix,
		StrictCreditLookup: c.strict,
		Subjects:           make([]SubjectSpec, 0, len(c.codes)),
	}
	for _, code := range c.codes {
		s := SubjectSpec{Code: code}
		if credit, ok := c.credits[code]; ok {
			credit := credit
			s.Credit = &credit
		}
		spec.Subjects = append(spec.Subjects, s)
	}
	return spec
}
