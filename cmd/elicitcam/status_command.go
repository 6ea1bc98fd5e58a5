package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"elicitcam/internal/dataset"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show table coverage and recent annotation activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows, err := coverageRows(cfg.Paths.DescriptionsDir, dataset.DescriptionSchema())
			if err != nil {
				return err
			}
			predictionRows, err := coverageRows(cfg.Paths.PredictionsDir, dataset.CommandSchema())
			if err != nil {
				return err
			}
			rows = append(rows, predictionRows...)

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No annotation tables found.")
			} else {
				fmt.Fprintln(out, renderTable(
					[]string{"Table", "Videos", "Filled", "Empty", "Coverage"},
					rows,
					1, 2, 3, 4,
				))
			}

			return printJournalStatus(cmd, ctx)
		},
	}
}

// coverageRows summarizes fill coverage for each CSV table under dir. A cell
// counts as filled when it is non-empty.
func coverageRows(dir string, schema dataset.Schema) ([][]string, error) {
	paths, err := csvTables(dir)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, path := range paths {
		table, err := dataset.Load(path, schema)
		if err != nil {
			return nil, err
		}
		filled, empty := 0, 0
		for _, key := range table.Keys() {
			for _, column := range schema.Slots() {
				if table.IsAbsent(key, column) {
					empty++
				} else {
					filled++
				}
			}
		}
		coverage := "-"
		if total := filled + empty; total > 0 {
			coverage = fmt.Sprintf("%.1f%%", 100*float64(filled)/float64(total))
		}
		rows = append(rows, []string{
			filepath.Base(path),
			strconv.Itoa(table.Len()),
			strconv.Itoa(filled),
			strconv.Itoa(empty),
			coverage,
		})
	}
	return rows, nil
}

func printJournalStatus(cmd *cobra.Command, ctx *commandContext) error {
	j, err := ctx.openJournal()
	if err != nil {
		return err
	}
	if j == nil {
		return nil
	}
	defer j.Close()

	out := cmd.OutOrStdout()
	counts, err := j.Summary(cmd.Context())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(out, "Journal is empty.")
		return nil
	}

	rows := make([][]string, 0, len(counts))
	for _, count := range counts {
		rows = append(rows, []string{count.Status, strconv.Itoa(count.Count)})
	}
	fmt.Fprintln(out, renderTable([]string{"Attempt Status", "Count"}, rows, 1))

	runID, attempts, err := j.LastRun(cmd.Context())
	if err != nil {
		return err
	}
	if runID != "" {
		fmt.Fprintf(out, "Last run %s recorded %d attempts.\n", runID, attempts)
	}
	return nil
}
