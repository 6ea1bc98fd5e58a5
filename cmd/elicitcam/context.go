package main

import (
	"fmt"
	"log/slog"

	"elicitcam/internal/annotate"
	"elicitcam/internal/config"
	"elicitcam/internal/journal"
	"elicitcam/internal/logging"
	"elicitcam/internal/services/openai"
)

// commandContext lazily loads configuration and shared services so commands
// that never touch them (help, config init) stay cheap.
type commandContext struct {
	configFlag *string

	cfg       *config.Config
	cfgPath   string
	cfgExists bool
	logger    *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = resolved
	c.cfgExists = exists
	return cfg, nil
}

// describeConfigPath reports where the active configuration came from.
// ensureConfig must have succeeded first.
func (c *commandContext) describeConfigPath() string {
	if !c.cfgExists {
		return fmt.Sprintf("%s (not found, defaults in effect)", c.cfgPath)
	}
	return c.cfgPath
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

// openJournal returns the attempt journal, or nil when journaling is off.
// Callers own the returned journal's lifetime.
func (c *commandContext) openJournal() (*journal.Journal, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// newAnnotationSource validates credentials and constructs the model client.
// Construction failure is fatal before any annotation work begins.
func (c *commandContext) newAnnotationSource() (annotate.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		AzureAPIKey:    cfg.OpenAI.AzureAPIKey,
		AzureEndpoint:  cfg.OpenAI.AzureEndpoint,
		APIVersion:     cfg.OpenAI.APIVersion,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		MaxTokens:      cfg.OpenAI.MaxTokens,
		Temperature:    cfg.OpenAI.Temperature,
		TopP:           cfg.OpenAI.TopP,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// annotatorOptions assembles the shared annotator options for one run.
func annotatorOptions(j *journal.Journal, extra ...annotate.Option) []annotate.Option {
	opts := make([]annotate.Option, 0, len(extra)+1)
	if j != nil {
		opts = append(opts, annotate.WithRecorder(j))
	}
	opts = append(opts, extra...)
	return opts
}
