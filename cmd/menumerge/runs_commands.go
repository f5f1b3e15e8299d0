package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"menumerge/internal/entity"
	"menumerge/internal/history"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded reconciliation runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd, jsonOutput) {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					string(run.Kind),
					formatTime(run.CreatedAt),
					runInputs(run),
					strconv.Itoa(run.Summary.TotalRecords),
					matchesCell(run),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Created", "Inputs", "Records", "Matches"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list; 0 lists all")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	return cmd
}

type runDetail struct {
	Run     *history.Run                 `json:"run"`
	Records []entity.MergedRecord        `json:"records,omitempty"`
	Items   []entity.ExtractionCandidate `json:"items,omitempty"`
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run and its stored output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			detail, err := loadRunDetail(cmd, store, args[0])
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd, jsonOutput) {
				return writeJSON(cmd, detail)
			}

			run := detail.Run
			out := cmd.OutOrStdout()
			pairs := [][2]string{
				{"ID", run.ID},
				{"Kind", string(run.Kind)},
				{"Created", formatTime(run.CreatedAt)},
				{"Inputs", runInputs(*run)},
			}
			if run.Kind == history.KindRestaurants {
				pairs = append(pairs,
					[2]string{"Assignment", valueOrDash(run.Assignment)},
					[2]string{"Records", strconv.Itoa(run.Summary.TotalRecords)},
					[2]string{"Matches", strconv.Itoa(run.Summary.Matches)},
					[2]string{"Unmatched A", strconv.Itoa(run.Summary.UnmatchedA)},
					[2]string{"Unmatched B", strconv.Itoa(run.Summary.UnmatchedB)},
					[2]string{"Match rate", formatFloat(run.Summary.MatchRate, 1) + "%"},
					[2]string{"Avg confidence", formatFloat(run.Summary.AverageConfidence, 2)},
					[2]string{"Avg quality", formatFloat(run.Summary.AverageQuality, 2)},
				)
			} else {
				pairs = append(pairs, [2]string{"Items", strconv.Itoa(run.Summary.TotalRecords)})
			}
			fmt.Fprintln(out, renderKeyValues(pairs))
			if len(detail.Records) > 0 {
				fmt.Fprintln(out, renderRecords(detail.Records))
			}
			if len(detail.Items) > 0 {
				fmt.Fprintln(out, renderMenuItems(detail.Items))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	return cmd
}

func loadRunDetail(cmd *cobra.Command, store *history.Store, id string) (*runDetail, error) {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	detail := &runDetail{Run: run}
	switch run.Kind {
	case history.KindRestaurants:
		detail.Records, err = store.RunRecords(cmd.Context(), id)
	case history.KindMenu:
		detail.Items, err = store.RunMenuItems(cmd.Context(), id)
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one run and its stored output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

func runInputs(run history.Run) string {
	switch {
	case run.InputA != "" && run.InputB != "":
		return run.InputA + " + " + run.InputB
	case run.InputA != "":
		return run.InputA
	}
	return "-"
}

func matchesCell(run history.Run) string {
	if run.Kind != history.KindRestaurants {
		return "-"
	}
	return strconv.Itoa(run.Summary.Matches)
}
