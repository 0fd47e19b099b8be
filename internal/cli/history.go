package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			db, ledger, err := a.openLedger()
			if err != nil {
				return err
			}
			if db == nil {
				return fmt.Errorf("no ledger configured: use --ledger or set ledger_path")
			}
			defer db.Close()

			runs, err := ledger.Runs.GetRuns(limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tFILE\tROWS\tCREATED\tEDITED\tMOVED\tERROR")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.ID,
					r.StartedAt.Format(time.DateTime),
					r.Status,
					r.FilePath,
					r.TotalRows,
					r.CreatedTasks,
					r.EditedTasks,
					r.MovedTasks,
					r.ErrorMessage,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")
	return cmd
}
