package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"elicitcam/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.describeConfigPath())
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				[][]string{
					{"dataset_dir", cfg.Paths.DatasetDir},
					{"images_dir", cfg.Paths.ImagesDir},
					{"poses_dir", cfg.Paths.PosesDir},
					{"descriptions_dir", cfg.Paths.DescriptionsDir},
					{"predictions_dir", cfg.Paths.PredictionsDir},
					{"log_dir", cfg.Paths.LogDir},
					{"model", cfg.OpenAI.Model},
					{"api_scheme", describeScheme(cfg)},
					{"sample_cap", fmt.Sprintf("%d", cfg.Annotate.SampleCap)},
					{"journal", describeJournal(cfg)},
					{"log_format", cfg.Logging.Format},
					{"log_level", cfg.Logging.Level},
				},
			))
			return nil
		},
	}
}

// describeScheme reports which credential scheme the configuration selects
// without echoing any secret material.
func describeScheme(cfg *config.Config) string {
	switch {
	case cfg.OpenAI.AzureAPIKey != "" && cfg.OpenAI.APIKey != "":
		return "conflicting (both keys set)"
	case cfg.OpenAI.AzureAPIKey != "":
		return "azure"
	case cfg.OpenAI.APIKey != "":
		return "openai"
	default:
		return "unconfigured"
	}
}

func describeJournal(cfg *config.Config) string {
	if !cfg.Journal.Enabled {
		return "disabled"
	}
	return cfg.Journal.Path
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file or export OPENAI_API_KEY (or AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT) before annotating.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}
