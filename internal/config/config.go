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

// Assignment strategies accepted by matching.assignment.
const (
	AssignmentGreedy  = "greedy"
	AssignmentOptimal = "optimal"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Matching contains the restaurant linkage signal weights and thresholds.
type Matching struct {
	NameWeight            float64 `toml:"name_weight"`
	PhoneWeight           float64 `toml:"phone_weight"`
	GeoWeight             float64 `toml:"geo_weight"`
	GeoDistanceThresholdM float64 `toml:"geo_distance_threshold_m"`
	MinMatchConfidence    float64 `toml:"min_match_confidence"`
	// Assignment selects "greedy" (input-order claiming) or "optimal"
	// (maximum total confidence). Default: greedy.
	Assignment string `toml:"assignment"`
	// Workers bounds concurrent pairwise scoring. 1 scores sequentially.
	Workers int `toml:"workers"`
}

// Merge contains record merging rules.
type Merge struct {
	// RequiredFieldsChecklist drives the quality score. Entries may list
	// alternatives separated by "|" (e.g. "website|url").
	RequiredFieldsChecklist []string `toml:"required_fields_checklist"`
	QualityPrecision        int      `toml:"quality_precision"`
	// DefaultPrecedence applies to fields without an explicit rule. Selectors
	// are "a", "b", or an origin tag.
	DefaultPrecedence []string            `toml:"default_precedence"`
	FieldPrecedence   map[string][]string `toml:"field_precedence"`
}

// Aggregation contains menu candidate fusion settings.
type Aggregation struct {
	AggregationCap int `toml:"aggregation_cap"`
	MinKeyLength   int `toml:"min_key_length"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for menumerge.
//
// Configuration sections by subsystem:
//   - Paths: data (history database) and log directories
//   - Matching: restaurant similarity weights, geo gate, assignment strategy
//   - Merge: quality checklist and field precedence rules
//   - Aggregation: menu candidate cap and grouping key floor
//   - History: run history persistence toggle
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Matching    Matching    `toml:"matching"`
	Merge       Merge       `toml:"merge"`
	Aggregation Aggregation `toml:"aggregation"`
	History     History     `toml:"history"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
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
		decoder.DisallowUnknownFields()
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("menumerge.toml")
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

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// PrecedenceFor returns the selector order for a merged field.
func (c *Config) PrecedenceFor(field string) []string {
	if order, ok := c.Merge.FieldPrecedence[field]; ok && len(order) > 0 {
		return order
	}
	return c.Merge.DefaultPrecedence
}

func expandPath(pathValue string) (string, error) {
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

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
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
