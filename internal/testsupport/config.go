package testsupport

import (
	"path/filepath"
	"testing"

	"mchsplit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source points at <base>/cheats.xml, which is not created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Source = filepath.Join(base, "cheats.xml")
	cfgVal.Paths.OutputDir = filepath.Join(base, "MCH")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithThreads sets the per-wave capacity.
func WithThreads(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Threads = n
		b.cfg.Split.Unlimited = false
	}
}

// WithUnlimited switches the config to single-wave mode.
func WithUnlimited() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Unlimited = true
	}
}

// WithHistory enables the run ledger under the temp directory.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}

// WithLogDir enables per-run log files under the temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}

// WithSource writes content to the configured source path.
func WithSource(content string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Paths.Source, content)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
