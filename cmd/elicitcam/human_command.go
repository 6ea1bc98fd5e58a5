package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"elicitcam/internal/dataset"
)

func newHumanCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "human",
		Short: "Prepare the human annotation tables",
	}
	cmd.AddCommand(newHumanSubcommand(ctx, "structured", "elicit_cam.csv", "d0_human_structured_descriptions.csv"))
	cmd.AddCommand(newHumanSubcommand(ctx, "freeform", "elicit_cam_ns.csv", "d1_human_freeform_descriptions.csv"))
	return cmd
}

// newHumanSubcommand prepares one human annotation export: select the
// description columns, normalize "unknown" placeholders to absence, sort by
// video identifier, and save.
func newHumanSubcommand(ctx *commandContext, name, sourceFile, outputFile string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Prepare the %s human annotation table", name),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			sourcePath := filepath.Join(cfg.Paths.DatasetDir, sourceFile)
			if _, err := os.Stat(sourcePath); err != nil {
				return fmt.Errorf("human annotations %s: %w", sourcePath, err)
			}
			table, err := dataset.Load(sourcePath, dataset.DescriptionSchema())
			if err != nil {
				return err
			}

			table = dataset.NormalizeUnknown(table).SortByKey()
			outputPath := filepath.Join(cfg.Paths.DescriptionsDir, outputFile)
			if err := dataset.Save(table, outputPath); err != nil {
				return err
			}
			logger.Info("human table prepared",
				"source", sourcePath,
				"output", outputPath,
				"rows", table.Len(),
			)
			return nil
		},
	}
}
