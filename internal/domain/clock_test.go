package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vtuportal/internal/domain"
)

func TestNextUpdateTime(t *testing.T) {
	prev := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		prev time.Time
		want time.Time
	}{
		{"first write", prev.Add(123 * time.Nanosecond), time.Time{}, prev},
		{"clock ahead", prev.Add(time.Second), prev, prev.Add(time.Second)},
		{"clock equal", prev, prev, prev.Add(time.Microsecond)},
		{"clock behind", prev.Add(-time.Hour), prev, prev.Add(time.Microsecond)},
		{"sub-microsecond ahead", prev.Add(500 * time.Nanosecond), prev, prev.Add(time.Microsecond)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(domain.NextUpdateTime(tt.now, tt.prev)))
		})
	}
}

func TestSGPA_Rounded(t *testing.T) {
	assert.Equal(t, "8.17", domain.SGPA{WeightedPoints: 98, Credits: 12}.Rounded().StringFixed(2))
	assert.Equal(t, "8.13", domain.SGPA{WeightedPoints: 65, Credits: 8}.Rounded().StringFixed(2))
	assert.Equal(t, "7.50", domain.SGPA{WeightedPoints: 15, Credits: 2}.Rounded().StringFixed(2))
}

func TestEvaluation_Summary(t *testing.T) {
	e := &domain.Evaluation{Status: domain.EvaluationNoData}
	assert.Nil(t, e.Summary())

	s := domain.SGPA{WeightedPoints: 40, Credits: 4}
	e = &domain.Evaluation{Status: domain.EvaluationComplete, SGPA: &s, Identity: domain.StudentIdentity{Name: "A", ExternalID: "1X"}}
	got := e.Summary()
	if assert.NotNil(t, got) {
		assert.Equal(t, s, got.SGPA)
		assert.Equal(t, "1X", got.Identity.ExternalID)
	}
}

func TestUpsertAction_PersistenceStatus(t *testing.T) {
	assert.Equal(t, domain.PersistenceCreated, domain.UpsertCreated.PersistenceStatus())
	assert.Equal(t, domain.PersistenceUpdated, domain.UpsertUpdated.PersistenceStatus())
}
