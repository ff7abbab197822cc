package splitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mchsplit/internal/cheats"
	"mchsplit/internal/cheatxml"
	"mchsplit/internal/fileutil"
	"mchsplit/internal/logging"
	"mchsplit/internal/preflight"
	"mchsplit/internal/runlock"
	"mchsplit/internal/services"
	"mchsplit/internal/source"
	"mchsplit/internal/taskqueue"
)

const outputFileMode = 0o644

// Options configures a Converter.
type Options struct {
	SourcePath string
	OutputDir  string
	// Capacity is the number of records converted per wave. Values below one
	// disable automatic waves; everything is converted on the final flush.
	Capacity int
	// Formatter defaults to cheats.MCHFormatter.
	Formatter cheats.Formatter
	// StrictCodes fails records whose payload contains non-hex tokens.
	StrictCodes bool
	Logger      *slog.Logger
	// RunID is generated when empty.
	RunID string
}

// Converter runs conversions for one source/output pair.
type Converter struct {
	opts      Options
	formatter cheats.Formatter
	logger    *slog.Logger
}

// New validates opts and returns a Converter.
func New(opts Options) (*Converter, error) {
	opts.SourcePath = strings.TrimSpace(opts.SourcePath)
	opts.OutputDir = strings.TrimSpace(opts.OutputDir)
	if opts.SourcePath == "" {
		return nil, services.Wrap(services.ErrConfiguration, "split", "configure", "source path is empty", nil)
	}
	if opts.OutputDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "split", "configure", "output directory is empty", nil)
	}
	if opts.Capacity < 0 {
		opts.Capacity = taskqueue.Unbounded
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = cheats.MCHFormatter{}
	}
	return &Converter{
		opts:      opts,
		formatter: formatter,
		logger:    logging.NewComponentLogger(opts.Logger, "splitter"),
	}, nil
}

// Run performs one conversion. The returned summary is non-nil whenever the
// output directory was touched, including when the stream aborted; the
// error is non-nil only for fatal problems. Per-record failures are reported
// through Summary.Failures.
func (c *Converter) Run(ctx context.Context) (*Summary, error) {
	runID := c.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, "split")
	logger := logging.WithContext(ctx, c.logger)

	// The source is checked before the output directory is cleared so a
	// typo in --source never destroys a previous run's files.
	if err := preflight.ValidateSource(c.opts.SourcePath); err != nil {
		return nil, err
	}
	if err := preflight.ValidateOutput(c.opts.SourcePath, c.opts.OutputDir); err != nil {
		return nil, err
	}

	lock, err := runlock.Acquire(c.opts.OutputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "split", "lock output", "", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release output lock failed", logging.Error(err))
		}
	}()

	if err := fileutil.ResetDir(c.opts.OutputDir); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "split", "prepare output", "", err)
	}

	summary := &Summary{
		RunID:     runID,
		Source:    c.opts.SourcePath,
		OutputDir: c.opts.OutputDir,
		Capacity:  c.opts.Capacity,
		Started:   time.Now(),
	}

	in, err := source.Open(c.opts.SourcePath)
	if err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "split", "open source", "", err)
	}
	defer in.Close()

	logger.Info("split started",
		logging.String("source", c.opts.SourcePath),
		logging.String("output_dir", c.opts.OutputDir),
		logging.Int("capacity", c.opts.Capacity),
		logging.String("format", c.formatter.Extension()),
	)

	results := newTally()
	queue := taskqueue.New(c.opts.Capacity, taskqueue.WithLogger(logging.WithContext(ctx, c.opts.Logger)))
	reader := cheatxml.NewReader(in)

	streamErr := c.stream(ctx, reader, queue, results, summary)

	// Whatever stopped the stream, records already handed to the queue are
	// still converted.
	c.absorb(logger, results, queue.Flush(context.WithoutCancel(ctx)))

	results.fill(summary)
	summary.Waves = queue.Stats().Waves
	summary.Duration = time.Since(summary.Started)

	attrs := []logging.Attr{
		logging.Int("records", summary.Records),
		logging.Int("written", summary.Written),
		logging.Int("failed", summary.Failed()),
		logging.Int("waves", summary.Waves),
		logging.String("digest", summary.DigestHex()),
		logging.Duration("elapsed", summary.Duration),
	}
	if streamErr != nil {
		logging.ErrorWithContext(logger, "split aborted", "split_aborted",
			append(attrs, logging.Error(streamErr), logging.String(logging.FieldErrorHint, "fix or re-download the cheat database"))...)
		return summary, streamErr
	}
	logger.Info("split finished", logging.Args(attrs...)...)
	return summary, nil
}

// stream pulls records until the reader is exhausted, the document turns
// out to be malformed or ctx is cancelled.
func (c *Converter) stream(ctx context.Context, reader *cheatxml.Reader, queue *taskqueue.Queue, results *tally, summary *Summary) error {
	logger := logging.WithContext(ctx, c.logger)
	for {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrTransient, "split", "read source",
				fmt.Sprintf("cancelled after %d records", summary.Records), err)
		}
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return services.Wrap(services.ErrValidation, "split", "read source", "", err)
		}
		summary.Records++
		c.absorb(logger, results, queue.Push(ctx, c.task(rec, results)))
	}
}

func (c *Converter) task(rec *cheats.Record, results *tally) taskqueue.Task {
	return func(ctx context.Context) error {
		if err := c.convert(ctx, rec, results); err != nil {
			return &RecordError{ID: rec.ID, Name: rec.Name, Err: err}
		}
		return nil
	}
}

func (c *Converter) convert(ctx context.Context, rec *cheats.Record, results *tally) error {
	if rec.ID == "" {
		return services.Wrap(services.ErrValidation, "convert", "validate record", "missing game id", nil)
	}
	if strings.ContainsAny(rec.ID, `/\`) {
		return services.Wrap(services.ErrValidation, "convert", "validate record",
			fmt.Sprintf("game id %q contains a path separator", rec.ID), nil)
	}
	if c.opts.StrictCodes {
		if err := cheats.ValidateRecordCodes(rec); err != nil {
			return services.Wrap(services.ErrValidation, "convert", "validate codes", "", err)
		}
	}

	var body bytes.Buffer
	if err := c.formatter.Format(&body, rec); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	name := c.formatter.FileName(rec)
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return services.Wrap(services.ErrValidation, "convert", "name output",
			fmt.Sprintf("file name %q leaves the output directory", name), nil)
	}
	path := filepath.Join(c.opts.OutputDir, name)
	if err := fileutil.WriteFileAtomic(path, body.Bytes(), outputFileMode); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	logger := logging.WithContext(services.WithRecordID(ctx, rec.ID), c.logger)
	if results.addFile(name, body.Bytes()) {
		logging.WarnWithContext(logger, "output file name reused; one record overwrote another", "duplicate_output",
			logging.String("file", name),
			logging.String(logging.FieldImpact, "one game's cheats were overwritten"),
		)
	}
	logger.Debug("record written",
		logging.String("file", name),
		logging.Int("categories", len(rec.Categories)),
		logging.Int("entries", rec.EntryCount()),
	)
	return nil
}

// absorb folds a wave error into the tally. Failures that did not come from
// a task's own RecordError, such as recovered panics, are kept without an
// identity.
func (c *Converter) absorb(logger *slog.Logger, results *tally, waveErr error) {
	for _, err := range taskqueue.Failures(waveErr) {
		var recErr *RecordError
		if !errors.As(err, &recErr) {
			recErr = &RecordError{Err: err}
		}
		results.addFailure(recErr)
		logging.WarnWithContext(logger, "record conversion failed", "record_failed",
			logging.String(logging.FieldRecordID, recErr.ID),
			logging.String("name", recErr.Name),
			logging.String("kind", services.Kind(recErr.Err)),
			logging.Error(recErr.Err),
			logging.String(logging.FieldImpact, "no cheat file was written for this game"),
		)
	}
}
