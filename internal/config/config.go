package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains corpus and output directory configuration.
type Paths struct {
	DatasetDir      string `toml:"dataset_dir"`
	ImagesDir       string `toml:"images_dir"`
	PosesDir        string `toml:"poses_dir"`
	DescriptionsDir string `toml:"descriptions_dir"`
	PredictionsDir  string `toml:"predictions_dir"`
	LogDir          string `toml:"log_dir"`
}

// OpenAI contains model connection settings. Exactly one credential scheme is
// used per run: a direct API key, or an Azure deployment endpoint plus key.
type OpenAI struct {
	APIKey         string  `toml:"api_key"`
	AzureAPIKey    string  `toml:"azure_api_key"`
	AzureEndpoint  string  `toml:"azure_endpoint"`
	APIVersion     string  `toml:"api_version"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TopP           float64 `toml:"top_p"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Annotate contains annotation run settings.
type Annotate struct {
	SampleCap int `toml:"sample_cap"`
}

// Journal contains attempt journal settings.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the dataset builder.
type Config struct {
	Paths    Paths    `toml:"paths"`
	OpenAI   OpenAI   `toml:"openai"`
	Annotate Annotate `toml:"annotate"`
	Journal  Journal  `toml:"journal"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the repository defaults, rooted in the current directory.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir:      "dataset",
			ImagesDir:       filepath.Join("dataset", "images"),
			PosesDir:        filepath.Join("dataset", "jsons"),
			DescriptionsDir: filepath.Join("data", "descriptions"),
			PredictionsDir:  filepath.Join("data", "predictions"),
			LogDir:          filepath.Join("data", "logs"),
		},
		OpenAI: OpenAI{
			APIVersion:  "2024-02-01",
			Model:       "gpt-4o",
			MaxTokens:   200,
			Temperature: 0,
			TopP:        0.1,
		},
		Annotate: Annotate{SampleCap: 50},
		Journal: Journal{
			Enabled: true,
			Path:    filepath.Join("data", "logs", "journal.db"),
		},
		Logging: Logging{Format: "console", Level: "info"},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/elicitcam/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and credential environment fallbacks
// applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("elicitcam.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// normalize expands paths and applies environment fallbacks for credentials.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.DatasetDir,
		&c.Paths.ImagesDir,
		&c.Paths.PosesDir,
		&c.Paths.DescriptionsDir,
		&c.Paths.PredictionsDir,
		&c.Paths.LogDir,
		&c.Journal.Path,
	} {
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.AzureAPIKey = strings.TrimSpace(c.OpenAI.AzureAPIKey)
	c.OpenAI.AzureEndpoint = strings.TrimSpace(c.OpenAI.AzureEndpoint)
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if c.OpenAI.AzureAPIKey == "" {
		c.OpenAI.AzureAPIKey = strings.TrimSpace(os.Getenv("AZURE_OPENAI_API_KEY"))
	}
	if c.OpenAI.AzureEndpoint == "" {
		c.OpenAI.AzureEndpoint = strings.TrimSpace(os.Getenv("AZURE_OPENAI_ENDPOINT"))
	}
	return nil
}

// Validate rejects configurations that would fail mid-run.
func (c *Config) Validate() error {
	if c.Annotate.SampleCap < 1 {
		return fmt.Errorf("annotate.sample_cap must be positive, got %d", c.Annotate.SampleCap)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return errors.New("journal.path required when journal.enabled")
	}
	return nil
}

// EnsureDirectories creates the output directories annotation runs write to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DescriptionsDir, c.Paths.PredictionsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading "~" against the current user's home directory
// and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
