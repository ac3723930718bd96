package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"vtuportal/internal/domain"
)

// RowMatcher recognises subject result rows for one course-code enumeration.
//
// A row is a course code from the enumeration followed, after any run of
// characters, by three whitespace-separated integers, a P/F flag and a
// YYYY-MM-DD date. The integers are positional: internal marks, external
// marks, total marks. Nothing else about the row is inferred.
type RowMatcher struct {
	re *regexp.Regexp
}

// NewRowMatcher compiles the row pattern for codes. Codes are matched exactly;
// longer codes are tried first so no code can shadow one it prefixes.
func NewRowMatcher(codes []string) *RowMatcher {
	alts := make([]string, len(codes))
	copy(alts, codes)
	sort.SliceStable(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	for i, c := range alts {
		alts[i] = regexp.QuoteMeta(c)
	}
	pattern := `(` + strings.Join(alts, "|") + `).*?(\d+)\s+(\d+)\s+(\d+)\s+([PF])\s+(\d{4}-\d{2}-\d{2})`
	return &RowMatcher{re: regexp.MustCompile(pattern)}
}

// Match returns one record per recognised row, in document order.
// Rows whose marks do not fit an int are dropped.
func (m *RowMatcher) Match(text string) []domain.SubjectRecord {
	matches := m.re.FindAllStringSubmatch(text, -1)
	records := make([]domain.SubjectRecord, 0, len(matches))
	for _, sub := range matches {
		internal, err1 := strconv.Atoi(sub[2])
		external, err2 := strconv.Atoi(sub[3])
		total, err3 := strconv.Atoi(sub[4])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		records = append(records, domain.SubjectRecord{
			Code:          sub[1],
			InternalMarks: internal,
			ExternalMarks: external,
			TotalMarks:    total,
			Result:        domain.ResultFlag(sub[5]),
			ResultDate:    sub[6],
		})
	}
	return records
}
