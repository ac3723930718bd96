package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"vtuportal/internal/export"
	"vtuportal/internal/service"
)

func newExportCmd(open opener) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored row as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return withService(open, true, func(svc service.ResultService) error {
				var w io.Writer = cmd.OutOrStdout()
				if output != "" && output != "-" {
					file, err := os.Create(output)
					if err != nil {
						return err
					}
					defer func() { _ = file.Close() }()
					w = file
				}
				return svc.ExportRecords(cmd.Context(), w, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
