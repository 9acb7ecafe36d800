package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stemsplit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int
	var jobsFlag int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent import operations from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := cfg.HistoryPath()
			if path == "" {
				return fmt.Errorf("history is disabled; enable import.history and set paths.log_dir in the configuration")
			}

			ledger, err := history.Open(path)
			if err != nil {
				return fmt.Errorf("open history ledger: %w", err)
			}
			defer ledger.Close()

			out := cmd.OutOrStdout()

			if jobsFlag > 0 {
				jobs, err := ledger.Jobs(cmd.Context(), jobsFlag)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintf(out, "No jobs recorded for operation %d\n", jobsFlag)
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						job.Role,
						strconv.FormatFloat(job.Pan, 'f', -1, 64),
						job.Status,
						job.Reason,
						job.ClipPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Channel", "Pan", "Status", "Reason", "Clip"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			operations, err := ledger.Recent(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(operations) == 0 {
				fmt.Fprintln(out, "No imports recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(operations))
			for _, op := range operations {
				rows = append(rows, []string{
					strconv.FormatInt(op.ID, 10),
					op.CreatedAt.Local().Format(time.DateTime),
					op.MediaPath,
					op.Mode,
					op.Status,
					strconv.Itoa(op.Clips),
					strconv.Itoa(op.Failures),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "When", "Media", "Mode", "Status", "Clips", "Failures"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum operations to list")
	cmd.Flags().Int64Var(&jobsFlag, "jobs", 0, "Show the job rows of one operation ID")
	return cmd
}
