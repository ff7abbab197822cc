package preflight

import "mchsplit/internal/config"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckSourceReadable(cfg.Paths.Source),
		CheckOutputTarget(cfg.Paths.Source, cfg.Paths.OutputDir),
	}

	if cfg.History.Enabled {
		results = append(results, CheckParentWritable("History database", cfg.History.Path))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, checkCreatable("Log directory", cfg.Logging.Dir))
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
