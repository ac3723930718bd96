package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vtuportal/internal/bootstrap"
	"vtuportal/internal/config"
)

func TestSheetOptions(t *testing.T) {
	cfg := &config.Config{
		S3:    config.S3Config{Bucket: "results-bucket"},
		Store: config.StoreConfig{WorkbookKey: "a/b.xlsx", SheetName: "Marks", MaxAttempts: 4},
	}

	opts := bootstrap.SheetOptions(cfg, zap.NewNop())

	assert.Equal(t, "results-bucket", opts.Bucket)
	assert.Equal(t, "a/b.xlsx", opts.Key)
	assert.Equal(t, "Marks", opts.SheetName)
	assert.Equal(t, uint(4), opts.MaxAttempts)
	assert.NotNil(t, opts.Clock)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, _, err := bootstrap.OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "mongo"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewResultService_BuiltInCatalogue(t *testing.T) {
	cfg := &config.Config{Semester: config.SemesterConfig{Default: "sem1"}}

	svc, err := bootstrap.NewResultService(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, svc.Semesters())
}

func TestNewResultService_UnknownDefault(t *testing.T) {
	cfg := &config.Config{Semester: config.SemesterConfig{Default: "sem42"}}

	_, err := bootstrap.NewResultService(cfg, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNewResultService_MissingCatalogueFile(t *testing.T) {
	cfg := &config.Config{Semester: config.SemesterConfig{
		CataloguePath: t.TempDir() + "/missing.yaml",
		Default:       "sem1",
	}}

	_, err := bootstrap.NewResultService(cfg, nil, zap.NewNop())
	assert.Error(t, err)
}
