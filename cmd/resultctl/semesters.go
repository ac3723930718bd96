package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vtuportal/internal/service"
)

func newSemestersCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "semesters",
		Short: "List configured semesters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(open, false, func(svc service.ResultService) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tLABEL\tSUBJECTS\tCREDITS\tSTRICT")
				for _, s := range svc.Semesters() {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\n",
						s.ID(), s.Label(), len(s.Codes()), s.TotalCredits(), s.StrictCreditLookup())
				}
				return tw.Flush()
			})
		},
	}
}
