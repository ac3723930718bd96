// Command resultctl evaluates VTU result documents and queries the shared
// result table from the command line.
//
// Usage:
//
//	resultctl semesters
//	resultctl evaluate --semester sem1 --jobs 4 results/*.pdf
//	resultctl lookup 1AB23CS001 --semester sem1
//	resultctl export --format xlsx -o results.xlsx
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vtuportal/internal/bootstrap"
	"vtuportal/internal/config"
	"vtuportal/internal/logging"
	"vtuportal/internal/port"
	"vtuportal/internal/service"
)

func main() {
	if err := newRootCmd(defaultOpener).Execute(); err != nil {
		os.Exit(1)
	}
}

// opener builds the result service. withStore is false when the command never
// touches the result table.
type opener func(withStore bool) (service.ResultService, func() error, error)

func defaultOpener(withStore bool) (service.ResultService, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}

	var repo port.ResultRepository
	closeStore := func() error { return nil }
	if withStore {
		repo, closeStore, err = bootstrap.OpenStore(context.Background(), cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening result store: %w", err)
		}
	}

	svc, err := bootstrap.NewResultService(cfg, repo, logger)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return svc, func() error {
		_ = logger.Sync()
		return closeStore()
	}, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "resultctl",
		Short:        "Evaluate VTU result documents and query the result table",
		SilenceUsage: true,
	}
	root.AddCommand(
		newSemestersCmd(open),
		newEvaluateCmd(open),
		newLookupCmd(open),
		newExportCmd(open),
	)
	return root
}

// withService opens the service, runs fn and releases the store.
func withService(open opener, withStore bool, fn func(svc service.ResultService) error) error {
	svc, closeFn, err := open(withStore)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	return fn(svc)
}
