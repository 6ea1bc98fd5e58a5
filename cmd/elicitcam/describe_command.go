package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"elicitcam/internal/annotate"
	"elicitcam/internal/corpus"
	"elicitcam/internal/dataset"
)

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate gesture descriptions with the vision model",
	}
	cmd.AddCommand(newDescribeImagesCommand(ctx))
	cmd.AddCommand(newDescribePosesCommand(ctx))
	return cmd
}

func newDescribeImagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Describe gestures from the frame corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			units, err := corpus.ImageUnits(cfg.Paths.ImagesDir, dataset.DescriptionSchema(), cfg.Annotate.SampleCap)
			if err != nil {
				return err
			}
			outputPath := filepath.Join(cfg.Paths.DescriptionsDir, "d3_llm_descriptions.csv")
			return runAnnotation(cmd, ctx, outputPath, dataset.DescriptionSchema(), units)
		},
	}
}

// posesOutputFile maps each filter stage to its table, matching the dataset
// numbering (d4 poses, d5 landmarks, d6 combined).
func posesOutputFile(stage corpus.Stage) string {
	for i, s := range corpus.Stages() {
		if s == stage {
			return fmt.Sprintf("d%d_openai_%s_descriptions.csv", i+4, stage)
		}
	}
	return fmt.Sprintf("d_openai_%s_descriptions.csv", stage)
}

func newDescribePosesCommand(ctx *commandContext) *cobra.Command {
	var stageFlag string
	cmd := &cobra.Command{
		Use:   "poses",
		Short: "Describe gestures from the hand-pose document corpus",
		Long: "Describe gestures from per-frame MediaPipe hand annotations. Each stage " +
			"uploads a different slice of the documents: poses (everything except raw " +
			"landmarks), landmarks (raw landmarks only), or combined. Without --stage " +
			"all three run in order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			stages := corpus.Stages()
			if stageFlag != "" {
				stage, err := corpus.ParseStage(stageFlag)
				if err != nil {
					return err
				}
				stages = []corpus.Stage{stage}
			}

			for _, stage := range stages {
				units, err := corpus.PoseUnits(cfg.Paths.PosesDir, dataset.DescriptionSchema(), stage)
				if err != nil {
					return err
				}
				outputPath := filepath.Join(cfg.Paths.DescriptionsDir, posesOutputFile(stage))
				if err := runAnnotation(cmd, ctx, outputPath, dataset.DescriptionSchema(), units); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&stageFlag, "stage", "", "Run a single stage: poses, landmarks, or combined")
	return cmd
}

// runAnnotation executes one incremental annotation run against outputPath.
func runAnnotation(cmd *cobra.Command, ctx *commandContext, outputPath string, schema dataset.Schema, units []annotate.Unit, extra ...annotate.Option) error {
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
	source, err := ctx.newAnnotationSource()
	if err != nil {
		return err
	}
	j, err := ctx.openJournal()
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	table, err := dataset.Load(outputPath, schema)
	if err != nil {
		return err
	}
	annotator := annotate.New(table, outputPath, source, logger, annotatorOptions(j, extra...)...)
	return annotator.Run(cmd.Context(), units)
}
