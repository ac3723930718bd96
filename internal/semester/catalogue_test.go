package semester_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtuportal/internal/domain"
	"vtuportal/internal/semester"
)

func intPtr(v int) *int { return &v }

func TestDefault_Catalogue(t *testing.T) {
	cat, err := semester.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"sem1", "sem2"}, cat.IDs())

	sem1, err := cat.Get("sem1")
	require.NoError(t, err)
	assert.Equal(t, "Semester 1", sem1.Label())
	assert.Len(t, sem1.Codes(), 8)
	assert.Equal(t, 20, sem1.TotalCredits())
	assert.Empty(t, sem1.NameSuffixStrip())
	assert.False(t, sem1.StrictCreditLookup())

	credit, ok := sem1.Credit("BESCK104E")
	assert.True(t, ok)
	assert.Equal(t, 3, credit)

	sem2, err := cat.Get("sem2")
	require.NoError(t, err)
	assert.Equal(t, " S", sem2.NameSuffixStrip())
	assert.Equal(t, 20, sem2.TotalCredits())
}

func TestCatalogue_GetUnknown(t *testing.T) {
	cat, err := semester.Default()
	require.NoError(t, err)

	_, err = cat.Get("sem9")
	assert.ErrorIs(t, err, domain.ErrUnknownSemester)
}

func TestCatalogue_ByLabel(t *testing.T) {
	cat, err := semester.Default()
	require.NoError(t, err)

	cfg, ok := cat.ByLabel("Semester 2")
	require.True(t, ok)
	assert.Equal(t, "sem2", cfg.ID())

	_, ok = cat.ByLabel("Semester 7")
	assert.False(t, ok)
}

func TestLoad_SubjectWithoutCredit(t *testing.T) {
	yml := `
semesters:
  - id: lab
    label: Lab Semester
    strict_credit_lookup: true
    subjects:
      - { code: LAB101, credit: 2 }
      - { code: AUDIT102 }
`
	cat, err := semester.Load(strings.NewReader(yml))
	require.NoError(t, err)

	cfg, err := cat.Get("lab")
	require.NoError(t, err)
	assert.True(t, cfg.StrictCreditLookup())
	assert.Equal(t, []string{"LAB101", "AUDIT102"}, cfg.Codes())

	_, ok := cfg.Credit("AUDIT102")
	assert.False(t, ok)
	assert.Equal(t, 2, cfg.TotalCredits())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"no semesters", "semesters: []\n"},
		{"missing label", "semesters:\n  - id: a\n    subjects: [{code: X1, credit: 1}]\n"},
		{"no subjects", "semesters:\n  - id: a\n    label: A\n"},
		{"lowercase code", "semesters:\n  - id: a\n    label: A\n    subjects: [{code: x1, credit: 1}]\n"},
		{"duplicate code", "semesters:\n  - id: a\n    label: A\n    subjects: [{code: X1, credit: 1}, {code: X1, credit: 2}]\n"},
		{"negative credit", "semesters:\n  - id: a\n    label: A\n    subjects: [{code: X1, credit: -1}]\n"},
		{"duplicate id", "semesters:\n  - id: a\n    label: A\n    subjects: [{code: X1, credit: 1}]\n  - id: a\n    label: B\n    subjects: [{code: X2, credit: 1}]\n"},
		{"unknown field", "semesters:\n  - id: a\n    label: A\n    colour: red\n    subjects: [{code: X1, credit: 1}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := semester.Load(strings.NewReader(tt.yml))
			assert.ErrorIs(t, err, domain.ErrInvalidCatalogue)
		})
	}
}

func TestConfig_CodesIsACopy(t *testing.T) {
	cfg := semester.MustNew(semester.Spec{
		ID:       "x",
		Label:    "X",
		Subjects: []semester.SubjectSpec{{Code: "A1", Credit: intPtr(1)}},
	})

	codes := cfg.Codes()
	codes[0] = "MUTATED"
	assert.Equal(t, []string{"A1"}, cfg.Codes())
}

func TestConfig_SpecRoundTrip(t *testing.T) {
	spec := semester.Spec{
		ID:              "x",
		Label:           "X",
		NameSuffixStrip: " S",
		Subjects: []semester.SubjectSpec{
			{Code: "A1", Credit: intPtr(4)},
			{Code: "B2"},
		},
	}
	cfg := semester.MustNew(spec)
	assert.Equal(t, spec, cfg.Spec())
}
