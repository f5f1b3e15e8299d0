package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"menumerge/internal/export"
	"menumerge/internal/reconcile"
	"menumerge/internal/sources"
)

func newAggregateCommand(ctx *commandContext) *cobra.Command {
	var (
		candidatesPath string
		capFlag        int
		outPath        string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Fuse menu extraction candidates into a ranked item list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			limit := cfg.Aggregation.AggregationCap
			if cmd.Flags().Changed("cap") {
				if capFlag < 0 {
					return fmt.Errorf("--cap must be >= 0, got %d", capFlag)
				}
				limit = capFlag
			}

			candidates, err := sources.LoadCandidates(candidatesPath)
			if err != nil {
				return err
			}

			var report *reconcile.MenuReport
			err = ctx.withService(func(svc *reconcile.Service) error {
				var runErr error
				report, runErr = svc.AggregateMenu(cmd.Context(), reconcile.MenuInput{
					Label:      candidatesPath,
					Candidates: candidates,
					Cap:        limit,
				})
				return runErr
			})
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := export.WriteJSON(outPath, report); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			if ctx.wantJSON(cmd, jsonOutput) {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: %s from %s in %s\n",
				report.RunID,
				pluralize(len(report.Items), "item", "items"),
				pluralize(report.Candidates, "candidate", "candidates"),
				pluralize(report.Groups, "group", "groups"),
			)
			if len(report.Items) > 0 {
				fmt.Fprintln(out, renderMenuItems(report.Items))
			}
			if outPath != "" {
				fmt.Fprintf(out, "Wrote menu to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&candidatesPath, "candidates", "", "Candidate file produced by the extraction strategies")
	cmd.Flags().IntVar(&capFlag, "cap", 0, "Maximum items to keep; 0 keeps all (default: aggregation.aggregation_cap)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report as JSON to this file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	_ = cmd.MarkFlagRequired("candidates")
	return cmd
}
