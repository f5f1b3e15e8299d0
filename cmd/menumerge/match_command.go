package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"menumerge/internal/config"
	"menumerge/internal/export"
	"menumerge/internal/reconcile"
	"menumerge/internal/sources"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		pathA      string
		pathB      string
		originA    string
		originB    string
		assignment string
		outPath    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Link two restaurant exports and merge matched records",
		Example: "  menumerge match --a osm.json --b yelp.json --out merged.json\n" +
			"  menumerge match --a osm.json --b yelp.json --assignment optimal --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strategy := strings.ToLower(strings.TrimSpace(assignment)); strategy != "" {
				if strategy != config.AssignmentGreedy && strategy != config.AssignmentOptimal {
					return fmt.Errorf("unsupported --assignment %q (want greedy or optimal)", assignment)
				}
				cfg.Matching.Assignment = strategy
			}

			if originA == "" {
				originA = defaultOrigin(pathA)
			}
			if originB == "" {
				originB = defaultOrigin(pathB)
			}
			setA, err := sources.LoadRestaurants(pathA, originA)
			if err != nil {
				return err
			}
			setB, err := sources.LoadRestaurants(pathB, originB)
			if err != nil {
				return err
			}

			var report *reconcile.RestaurantReport
			err = ctx.withService(func(svc *reconcile.Service) error {
				var runErr error
				report, runErr = svc.ReconcileRestaurants(cmd.Context(), reconcile.RestaurantInput{
					LabelA: pathA,
					LabelB: pathB,
					SetA:   setA,
					SetB:   setB,
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
			fmt.Fprintf(out, "Run %s (%s assignment)\n", report.RunID, report.Assignment)
			fmt.Fprintln(out, renderKeyValues(statsPairs(report.Stats)))
			if len(report.Records) > 0 {
				fmt.Fprintln(out, renderRecords(report.Records))
			}
			if outPath != "" {
				fmt.Fprintf(out, "Wrote %s to %s\n", pluralize(len(report.Records), "record", "records"), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pathA, "a", "", "Restaurant export for set A")
	cmd.Flags().StringVar(&pathB, "b", "", "Restaurant export for set B")
	cmd.Flags().StringVar(&originA, "origin-a", "", "Origin tag for set A entries without one (default: file name)")
	cmd.Flags().StringVar(&originB, "origin-b", "", "Origin tag for set B entries without one (default: file name)")
	cmd.Flags().StringVar(&assignment, "assignment", "", "Override matching.assignment (greedy or optimal)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the full report as JSON to this file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}
