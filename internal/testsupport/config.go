package testsupport

import (
	"path/filepath"
	"testing"

	"menumerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithAssignment selects the matching assignment strategy.
func WithAssignment(strategy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Assignment = strategy
	}
}

// WithWorkers sets the pairwise scoring concurrency.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Workers = n
	}
}

// WithHistory toggles run history persistence.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithFieldPrecedence overrides the selector order for one merged field.
func WithFieldPrecedence(field string, order ...string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Merge.FieldPrecedence == nil {
			b.cfg.Merge.FieldPrecedence = map[string][]string{}
		}
		b.cfg.Merge.FieldPrecedence[field] = order
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
