package splitter

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Summary describes one conversion run.
type Summary struct {
	RunID     string
	Source    string
	OutputDir string
	// Capacity is the wave size; zero means unbounded.
	Capacity int
	Records  int
	Written  int
	Failures []*RecordError
	Waves    int
	// Digest is an order-independent checksum of every written file name and
	// body. Two runs over the same source produce the same digest.
	Digest   uint64
	Started  time.Time
	Duration time.Duration
}

// Failed returns the number of records that could not be converted.
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// DigestHex renders Digest the way it is shown to operators.
func (s *Summary) DigestHex() string {
	return fmt.Sprintf("%016x", s.Digest)
}

// tally accumulates task results while waves run concurrently.
type tally struct {
	mu       sync.Mutex
	written  int
	digest   uint64
	names    map[string]struct{}
	failures []*RecordError
}

func newTally() *tally {
	return &tally{names: make(map[string]struct{})}
}

// addFile records a written file and reports whether its name was already used in
// this run.
func (t *tally) addFile(name string, body []byte) (duplicate bool) {
	h := xxhash.New()
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(body)
	sum := h.Sum64()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.written++
	t.digest += sum
	_, duplicate = t.names[name]
	t.names[name] = struct{}{}
	return duplicate
}

func (t *tally) addFailure(err *RecordError) {
	t.mu.Lock()
	t.failures = append(t.failures, err)
	t.mu.Unlock()
}

// fill copies the tally into s with failures in a stable order.
func (t *tally) fill(s *Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.Written = t.written
	s.Digest = t.digest
	s.Failures = slices.Clone(t.failures)
	slices.SortStableFunc(s.Failures, func(a, b *RecordError) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Name, b.Name))
	})
}
