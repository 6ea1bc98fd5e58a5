package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"elicitcam/internal/dataset"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Strip refusal boilerplate from description tables",
		Long: "Rewrites every description table in place: model refusals such as " +
			"\"No gesture detected.\" become empty cells and trailing periods are " +
			"removed from the remaining descriptions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			paths, err := csvTables(cfg.Paths.DescriptionsDir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("clean: no description tables in %s", cfg.Paths.DescriptionsDir)
			}

			for _, path := range paths {
				table, err := dataset.Load(path, dataset.DescriptionSchema())
				if err != nil {
					return err
				}
				cleaned := dataset.Clean(table)
				if err := dataset.Save(cleaned, path); err != nil {
					return err
				}
				logger.Info("cleaned description table", "path", path, "rows", cleaned.Len())
			}
			return nil
		},
	}
}

// csvTables lists the CSV tables directly under dir in sorted order.
func csvTables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("clean: read %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
