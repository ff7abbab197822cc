package main

import (
	"strconv"
	"time"

	"mchsplit/internal/services"
	"mchsplit/internal/splitter"
)

func capacityLabel(capacity int) string {
	if capacity <= 0 {
		return "unlimited"
	}
	return strconv.Itoa(capacity)
}

func renderSummary(s *splitter.Summary) string {
	rows := [][]string{
		{"Run", s.RunID},
		{"Source", s.Source},
		{"Output", s.OutputDir},
		{"Threads", capacityLabel(s.Capacity)},
		{"Games", strconv.Itoa(s.Records)},
		{"Written", strconv.Itoa(s.Written)},
		{"Failed", strconv.Itoa(s.Failed())},
		{"Waves", strconv.Itoa(s.Waves)},
		{"Digest", s.DigestHex()},
		{"Elapsed", s.Duration.Round(time.Millisecond).String()},
	}
	return renderKeyValue(rows)
}

func renderFailures(failures []*splitter.RecordError) string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		id := f.ID
		if id == "" {
			id = "-"
		}
		rows = append(rows, []string{id, f.Name, services.Kind(f.Err), f.Err.Error()})
	}
	return renderTable([]string{"Game ID", "Name", "Kind", "Error"}, rows, nil)
}
