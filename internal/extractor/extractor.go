// Package extractor turns the text layer of a result document into a student
// identity and a list of subject records. It never fails: missing anchors
// resolve to domain.NotFound and unrecognised rows are omitted.
package extractor

import (
	"strings"
	"sync"

	"vtuportal/internal/domain"
	"vtuportal/internal/semester"
)

// Extractor caches one compiled RowMatcher per semester configuration.
// It is safe for concurrent use.
type Extractor struct {
	mu   sync.RWMutex
	rows map[*semester.Config]*RowMatcher
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{rows: make(map[*semester.Config]*RowMatcher)}
}

// Extract parses documentText with the course enumeration and name rule of cfg.
func (e *Extractor) Extract(documentText string, cfg *semester.Config) (domain.StudentIdentity, []domain.SubjectRecord) {
	text := Normalize(documentText)

	identity := domain.StudentIdentity{Name: domain.NotFound, ExternalID: domain.NotFound}
	if name, ok := studentNameMatcher.Match(text); ok {
		identity.Name = CleanName(name, cfg.NameSuffixStrip())
	}
	if usn, ok := seatNumberMatcher.Match(text); ok {
		identity.ExternalID = usn
	}

	return identity, e.rowMatcher(cfg).Match(text)
}

func (e *Extractor) rowMatcher(cfg *semester.Config) *RowMatcher {
	e.mu.RLock()
	m, ok := e.rows[cfg]
	e.mu.RUnlock()
	if ok {
		return m
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok = e.rows[cfg]; ok {
		return m
	}
	m = NewRowMatcher(cfg.Codes())
	e.rows[cfg] = m
	return m
}

// CleanName removes suffix from name exactly once. An empty suffix is a no-op.
func CleanName(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return strings.TrimSuffix(name, suffix)
}
