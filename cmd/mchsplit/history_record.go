package main

import (
	"mchsplit/internal/history"
	"mchsplit/internal/services"
	"mchsplit/internal/splitter"
)

func historyRun(summary *splitter.Summary, runErr error) history.Run {
	run := history.Run{
		RunID:     summary.RunID,
		Source:    summary.Source,
		OutputDir: summary.OutputDir,
		Capacity:  summary.Capacity,
		Records:   summary.Records,
		Written:   summary.Written,
		Failed:    summary.Failed(),
		Waves:     summary.Waves,
		Digest:    summary.Digest,
		StartedAt: summary.Started,
		Duration:  summary.Duration,
	}
	switch {
	case runErr != nil:
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	case run.Failed > 0:
		run.Status = history.StatusPartial
	default:
		run.Status = history.StatusSucceeded
	}
	for _, f := range summary.Failures {
		run.Failures = append(run.Failures, history.Failure{
			GameID:   f.ID,
			GameName: f.Name,
			Kind:     services.Kind(f.Err),
			Message:  f.Err.Error(),
		})
	}
	return run
}
