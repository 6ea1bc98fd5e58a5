package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"elicitcam/internal/annotate"
	"elicitcam/internal/dataset"
	"elicitcam/internal/predict"
)

func newPredictCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict one-word command labels from description tables",
		Long: "For every description table, asks the model for a single command word " +
			"per filled description cell and writes the answers to a matching " +
			"predictions table. Runs are resumable; already predicted cells are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			paths, err := csvTables(cfg.Paths.DescriptionsDir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("predict: no description tables in %s", cfg.Paths.DescriptionsDir)
			}

			for _, path := range paths {
				descriptions, err := dataset.Load(path, dataset.DescriptionSchema())
				if err != nil {
					return err
				}
				units, err := predict.Units(descriptions)
				if err != nil {
					return err
				}
				outputPath, err := predict.OutputPath(path, cfg.Paths.DescriptionsDir, cfg.Paths.PredictionsDir)
				if err != nil {
					return err
				}
				transform := annotate.WithResultTransform(predict.NormalizeLabel)
				if err := runAnnotation(cmd, ctx, outputPath, dataset.CommandSchema(), units, transform); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
