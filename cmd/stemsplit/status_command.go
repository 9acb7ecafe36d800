package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stemsplit/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories, and pan tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var rows [][]string
			failures := 0
			appendResult := func(result preflight.Result) {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
					failures++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}

			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Command
				if !status.Available {
					detail = status.Detail
				}
				appendResult(preflight.Result{
					Name:   status.Name,
					Passed: status.Available,
					Detail: detail,
				})
			}

			appendResult(preflight.CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
			appendResult(preflight.CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
			if cfg.Paths.LogDir != "" {
				appendResult(preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
			}
			appendResult(preflight.CheckPanTables())

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if failures > 0 {
				return fmt.Errorf("%d check(s) failed; resolve them before importing", failures)
			}
			fmt.Fprintln(out, "Ready to import")
			return nil
		},
	}
}
