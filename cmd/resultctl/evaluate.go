package main

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vtuportal/internal/domain"
	"vtuportal/internal/service"
)

type evaluateOptions struct {
	semester string
	persist  bool
	jobs     int
}

type fileResult struct {
	path string
	ev   *domain.Evaluation
	err  error
}

func newEvaluateCmd(open opener) *cobra.Command {
	opts := evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate FILE...",
		Short: "Compute the SGPA of one or more result PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1")
			}
			return withService(open, opts.persist, func(svc service.ResultService) error {
				results := evaluateFiles(cmd, svc, args, opts)
				return printResults(cmd, results)
			})
		},
	}
	cmd.Flags().StringVar(&opts.semester, "semester", "", "semester id (default from configuration)")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "save each SGPA to the result table")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "documents evaluated concurrently")
	return cmd
}

// evaluateFiles runs every file through the pipeline; a failing file does not
// stop the others.
func evaluateFiles(cmd *cobra.Command, svc service.ResultService, paths []string, opts evaluateOptions) []fileResult {
	results := make([]fileResult, len(paths))
	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, path := range paths {
		g.Go(func() error {
			ev, err := evaluateFile(cmd, svc, path, opts)
			results[i] = fileResult{path: path, ev: ev, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func evaluateFile(cmd *cobra.Command, svc service.ResultService, path string, opts evaluateOptions) (*domain.Evaluation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	data, err := svc.ReadUpload(f, &multipart.FileHeader{Filename: filepath.Base(path), Size: info.Size()})
	if err != nil {
		return nil, err
	}
	return svc.Evaluate(cmd.Context(), service.EvaluateInput{
		SemesterID: opts.semester,
		Document:   data,
		Persist:    opts.persist,
	})
}

func printResults(cmd *cobra.Command, results []fileResult) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tUSN\tNAME\tSGPA\tSTATUS\tPERSISTENCE")

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\t-\t-\terror\t%v\n", r.path, r.err)
			continue
		}
		sgpa := "-"
		if r.ev.SGPARounded != nil {
			sgpa = r.ev.SGPARounded.StringFixed(2)
		}
		persistence := string(r.ev.Persistence.Status)
		if r.ev.Persistence.Reason != "" {
			persistence += " (" + r.ev.Persistence.Reason + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.path, r.ev.Identity.ExternalID, r.ev.Identity.Name, sgpa, r.ev.Status, persistence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
