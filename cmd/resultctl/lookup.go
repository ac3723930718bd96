package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vtuportal/internal/domain"
	"vtuportal/internal/service"
)

func newLookupCmd(open opener) *cobra.Command {
	var semesterID string
	var all bool
	cmd := &cobra.Command{
		Use:   "lookup USN",
		Short: "Show the stored SGPA for a seat number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(open, true, func(svc service.ResultService) error {
				if all {
					rows, err := svc.History(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					for i := range rows {
						printRow(cmd, &rows[i])
					}
					return nil
				}
				row, err := svc.Lookup(cmd.Context(), args[0], semesterID)
				if err != nil {
					return err
				}
				printRow(cmd, row)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&semesterID, "semester", "", "restrict to one semester id")
	cmd.Flags().BoolVar(&all, "all", false, "show every semester row for the seat number")
	cmd.MarkFlagsMutuallyExclusive("semester", "all")
	return cmd
}

func printRow(cmd *cobra.Command, row *domain.ResultRow) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
		row.ExternalID, row.Name, row.SGPA.StringFixed(2), row.SemesterLabel,
		row.LastUpdated.Format("2006-01-02 15:04:05"))
}
