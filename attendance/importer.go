package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/graphs"
)

// Stats summarizes an import.
type Stats struct {
	// Rows counts every data row read, header excluded.
	Rows int
	// Groups counts rows merged into the store.
	Groups int
	// Pairs counts the attendee pairs of merged rows.
	Pairs int
	// Skipped counts rows that produced no pairs.
	Skipped int
}

// Option configures an Importer.
type Option func(*options)

type options struct {
	header   bool
	reset    bool
	pairwise bool
	logger   *zap.Logger
}

// WithHeader controls whether the first row is a header to skip. Defaults to true.
func WithHeader(header bool) Option {
	return func(o *options) {
		o.header = header
	}
}

// WithReset controls whether the store is emptied before importing. Defaults to true.
func WithReset(reset bool) Option {
	return func(o *options) {
		o.reset = reset
	}
}

// WithPairwise sends one merge request per attendee pair instead of one per
// row. The resulting graph is the same.
func WithPairwise(pairwise bool) Option {
	return func(o *options) {
		o.pairwise = pairwise
	}
}

// WithLogger sets the logger used for import progress.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Importer loads attendance CSV data into a graph store.
type Importer struct {
	store graphs.GraphStore
	opts  *options
}

// NewImporter returns an importer writing to store.
func NewImporter(store graphs.GraphStore, opts ...Option) *Importer {
	o := &options{
		header: true,
		reset:  true,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Importer{store: store, opts: o}
}

// Import reads attendance rows from r and merges every attendee pair into
// the store. Rows may have any number of columns. A malformed row stops the
// import; rows merged before it stay in the store.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats

	if im.opts.reset {
		if err := im.store.DeleteAll(ctx); err != nil {
			return stats, fmt.Errorf("reset store: %w", err)
		}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	if im.opts.header {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("read header: %w", err)
		}
	}

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		stats.Rows++

		rec, err := ParseRecord(fields)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}

		pairs := Expand(rec)
		if len(pairs) == 0 {
			stats.Skipped++
			im.opts.logger.Debug("skipped row",
				zap.Int("line", line),
				zap.Int("attendees", len(rec.Attendees)))
			continue
		}

		if err := im.merge(ctx, rec, pairs); err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}

		stats.Groups++
		stats.Pairs += len(pairs)
		im.opts.logger.Debug("merged row",
			zap.Int("line", line),
			zap.String("event", rec.Event),
			zap.Int("pairs", len(pairs)))
	}

	im.opts.logger.Info("import finished",
		zap.Int("rows", stats.Rows),
		zap.Int("groups", stats.Groups),
		zap.Int("pairs", stats.Pairs),
		zap.Int("skipped", stats.Skipped))

	return stats, nil
}

func (im *Importer) merge(ctx context.Context, rec Record, pairs []Pair) error {
	if !im.opts.pairwise {
		return im.store.MergeGroup(ctx, rec.Attendees)
	}

	for _, p := range pairs {
		if err := im.store.MergeGroup(ctx, []string{p.A, p.B}); err != nil {
			return err
		}
	}
	return nil
}
