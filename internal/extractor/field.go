package extractor

import (
	"regexp"
	"strings"
)

// FieldMatcher captures the value following a literal label.
type FieldMatcher struct {
	re *regexp.Regexp
}

// NewFieldMatcher anchors valuePattern (which must contain one capture group)
// after label and a colon.
func NewFieldMatcher(label, valuePattern string) *FieldMatcher {
	return &FieldMatcher{re: regexp.MustCompile(regexp.QuoteMeta(label) + `\s*:\s*` + valuePattern)}
}

// Match returns the trimmed first capture, or false when the anchor is absent
// or the capture is blank.
func (m *FieldMatcher) Match(text string) (string, bool) {
	sub := m.re.FindStringSubmatch(text)
	if len(sub) < 2 {
		return "", false
	}
	v := strings.TrimSpace(sub[1])
	if v == "" {
		return "", false
	}
	return v, true
}

var (
	studentNameMatcher = NewFieldMatcher("Student Name", `([A-Z\s]+)`)
	seatNumberMatcher  = NewFieldMatcher("University Seat Number", `([A-Z0-9]+)`)
)
