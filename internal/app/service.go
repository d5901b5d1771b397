// Package service builds the athlete BMI dataset once at startup and serves
// read-only queries over it to the HTTP and CLI layers.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/athletebmi/internal/adapters/loader"
	"github.com/okian/athletebmi/internal/adapters/repository"
	"github.com/okian/athletebmi/internal/domain/athlete"
	"github.com/okian/athletebmi/internal/domain/dedupe"
	"github.com/okian/athletebmi/internal/domain/insights"
	"github.com/okian/athletebmi/pkg/logger"
	"github.com/okian/athletebmi/pkg/metrics"
)

// Defaults used when no option overrides them.
const (
	DefaultDataPath  = "dados/athlete_events.csv"
	DefaultDelimiter = ','
)

// Loader reads raw athlete rows from a dataset path.
type Loader interface {
	Load(ctx context.Context, path string) ([]athlete.RawRecord, error)
}

// Service holds the immutable year index built by Start.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader Loader
	index  repository.Store

	// Configuration
	dataPath       string
	delimiter      rune
	selectionLimit int

	// Build results
	started   bool
	stats     athlete.AggregateStats
	summary   insights.Summary
	loadedAt  time.Time
	buildTook time.Duration

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataPath sets the dataset file path.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithDelimiter sets the dataset field delimiter for the default loader.
func WithDelimiter(d rune) Option {
	return func(s *Service) {
		if d != 0 {
			s.delimiter = d
		}
	}
}

// WithSelectionLimit sets how many bars a selection returns.
func WithSelectionLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.selectionLimit = n
		}
	}
}

// WithLoader replaces the CSV loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath:       DefaultDataPath,
		delimiter:      DefaultDelimiter,
		selectionLimit: repository.DefaultSelectionLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.loader == nil {
		s.loader = loader.NewCSVLoader(loader.WithDelimiter(s.delimiter))
	}

	return s
}

// Start loads the dataset and builds the year index. Calling Start on a
// started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "loading athlete dataset", logger.String("path", s.dataPath))
	begin := time.Now()

	records, err := s.loader.Load(ctx, s.dataPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.dataPath, err)
	}

	summary := insights.Summarize(records)
	entries, stats := athlete.Aggregate(ctx, records, dedupe.NewYearDeduper())
	athlete.SortByBMI(entries)
	index := repository.NewYearIndex(ctx, entries)

	s.index = index
	s.stats = stats
	s.summary = summary
	s.loadedAt = time.Now()
	s.buildTook = s.loadedAt.Sub(begin)
	s.started = true

	years := index.Years(ctx)
	metrics.RecordDatasetBuild(metrics.DatasetBuild{
		RowsRead:    stats.RowsRead,
		RowsSkipped: stats.SkippedMissing,
		Duplicates:  stats.Duplicates,
		Entries:     stats.Entries,
		Years:       len(years),
		DurationMs:  float64(s.buildTook.Microseconds()) / 1000,
		LoadedUnix:  s.loadedAt.Unix(),
	})

	fields := []logger.Field{
		logger.Int("rows", stats.RowsRead),
		logger.Int("skipped", stats.SkippedMissing),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("entries", stats.Entries),
		logger.Int("years", len(years)),
		logger.Duration("took", s.buildTook),
	}
	if def, ok := index.DefaultYear(ctx); ok {
		fields = append(fields, logger.Int("defaultYear", def))
	} else {
		s.logger.Warn(ctx, "dataset has no rows with height and weight")
	}
	s.logger.Info(ctx, "athlete dataset ready", fields...)

	return nil
}

// Stop releases the index. The service can be started again afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.index = nil
	s.started = false
	s.logger.Info(context.Background(), "athlete service stopped")
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.index, nil
}

// Years returns the distinct years, most recent first.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	st, err := s.store()
	if err != nil {
		return nil, err
	}
	return st.Years(ctx), nil
}

// DefaultYear returns the most recent year. ok is false when the dataset
// produced no entries.
func (s *Service) DefaultYear(ctx context.Context) (year int, ok bool, err error) {
	st, err := s.store()
	if err != nil {
		return 0, false, err
	}
	year, ok = st.DefaultYear(ctx)
	return year, ok, nil
}

// Select returns the chart data for year in the given order, limited to the
// configured selection size.
func (s *Service) Select(ctx context.Context, year int, order repository.Order) (repository.Selection, error) {
	st, err := s.store()
	if err != nil {
		return repository.Selection{}, err
	}
	return st.Select(ctx, year, order, s.selectionLimit)
}

// Summary returns the dataset-wide statistics computed at startup.
func (s *Service) Summary(_ context.Context) (insights.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return insights.Summary{}, ErrNotStarted
	}
	return s.summary, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"dataPath":       s.dataPath,
		"selectionLimit": s.selectionLimit,
	}

	if s.started {
		ctx := context.Background()
		stats["rowsRead"] = s.stats.RowsRead
		stats["skippedMissing"] = s.stats.SkippedMissing
		stats["duplicates"] = s.stats.Duplicates
		stats["entries"] = s.index.Count(ctx)
		stats["years"] = len(s.index.Years(ctx))
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["buildMs"] = s.buildTook.Milliseconds()
		if def, ok := s.index.DefaultYear(ctx); ok {
			stats["defaultYear"] = def
		}
	}

	return stats
}
