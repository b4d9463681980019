package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DatabaseDir string `toml:"database_dir"`
	ExportDir   string `toml:"export_dir"`
	LogDir      string `toml:"log_dir"`
}

// Library contains configuration for collection scanning.
type Library struct {
	AudioExtensions []string `toml:"audio_extensions"`
}

// Vetting contains thresholds for duplicate classification.
type Vetting struct {
	// FuzzyThreshold is the default similarity score at or above which a
	// fuzzy title match counts as a duplicate.
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	// FuzzyFloor is the minimum similarity score a fuzzy candidate must
	// reach to be reported at all. Scores between the floor and the
	// threshold land in the uncertain band.
	FuzzyFloor float64 `toml:"fuzzy_floor"`
	// CertainConfidence is the confidence at or above which a verdict is
	// treated as certain regardless of match type.
	CertainConfidence float64 `toml:"certain_confidence"`
	// PersistRuns records each vetting report in the library database.
	PersistRuns bool `toml:"persist_runs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cratekeeper.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Library Library `toml:"library"`
	Vetting Vetting `toml:"vetting"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cratekeeper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Missing files fall back
// to defaults; exists reports whether a file was actually read.
func Load(path string) (cfg *Config, resolvedPath string, exists bool, err error) {
	value := Default()

	resolvedPath, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, openErr := os.Open(resolvedPath)
		if openErr != nil {
			return nil, "", false, fmt.Errorf("open config: %w", openErr)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if decodeErr := decoder.Decode(&value); decodeErr != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", decodeErr)
		}
	}

	if err = value.normalize(); err != nil {
		return nil, "", false, err
	}
	if err = value.Validate(); err != nil {
		return nil, "", false, err
	}

	return &value, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
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
	projectPath, err := filepath.Abs("cratekeeper.toml")
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

// EnsureDirectories creates the directories the stores and exporters write to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DatabaseDir, c.Paths.ExportDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}
