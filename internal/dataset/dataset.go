// Package dataset is the entry point for importing a named dataset: it
// resolves the identifier, obtains the raw text and builds the table.
//
// Construction only records configuration. No network access or parsing
// happens until Import is called.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/pfrederiksen/bda-datasets/internal/config"
	"github.com/pfrederiksen/bda-datasets/internal/football"
	"github.com/pfrederiksen/bda-datasets/internal/logger"
	"github.com/pfrederiksen/bda-datasets/internal/metrics"
	"github.com/pfrederiksen/bda-datasets/internal/source"
)

// Football is the identifier of the football point-spread dataset.
const Football = "football"

// ErrUnsupportedDataset is returned for an unknown dataset identifier.
var ErrUnsupportedDataset = errors.New("unsupported dataset")

var descriptions = map[string]string{
	Football: football.Description,
}

// Names returns the supported dataset identifiers.
func Names() []string {
	names := make([]string, 0, len(descriptions))
	for n := range descriptions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe returns the static description of a dataset.
func Describe(name string) (string, error) {
	d, ok := descriptions[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDataset, name)
	}
	return d, nil
}

// RawSource loads raw dataset text, from cache or remote.
type RawSource interface {
	Load(ctx context.Context, cachePath string) (*source.Result, error)
}

// Importer imports datasets according to a Config.
type Importer struct {
	cfg     config.Config
	years   football.YearSet // nil means parse cfg.Years on Import
	source  RawSource
	log     *logger.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithSource replaces the raw source built from the config.
func WithSource(s RawSource) Option {
	return func(i *Importer) { i.source = s }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(i *Importer) { i.log = l }
}

// WithMetrics records import metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(i *Importer) { i.metrics = m }
}

// WithYears overrides the season filter from the config.
func WithYears(years football.YearSet) Option {
	return func(i *Importer) {
		if years == nil {
			years = football.NewYearSet()
		}
		i.years = years
	}
}

// New creates an Importer. Settings are checked when Import runs.
func New(cfg *config.Config, opts ...Option) *Importer {
	i := &Importer{
		cfg: *cfg,
		log: logger.Discard(),
		now: time.Now,
	}
	i.cfg.Catalog = slices.Clone(cfg.Catalog)

	for _, opt := range opts {
		opt(i)
	}

	if i.source == nil {
		fetcher := source.NewHTTPFetcher(cfg.URL,
			source.WithAttempts(uint(cfg.FetchAttempts)),
			source.WithRetryDelay(cfg.RetryDelay),
			source.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		)
		i.source = source.NewProvider(fetcher)
	}
	if i.metrics == nil {
		i.metrics = metrics.NewManager()
	}
	return i
}

// Metrics returns the metrics manager used by the importer.
func (i *Importer) Metrics() *metrics.Manager {
	return i.metrics
}

// Import loads and builds the named dataset. Any fatal error aborts the
// import and no table is returned.
func (i *Importer) Import(ctx context.Context, name string) (*football.Table, error) {
	if _, ok := descriptions[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDataset, name)
	}

	years := i.years
	if years == nil {
		var err error
		if years, err = football.ParseYears(i.cfg.Years); err != nil {
			return nil, fmt.Errorf("%w: years: %v", config.ErrInvalidConfig, err)
		}
	}

	start := i.now()
	raw, err := i.source.Load(ctx, i.cfg.CachePath)
	if err != nil {
		i.metrics.RecordFetchFailure()
		i.log.Error("Failed to load dataset", logger.Fields{"dataset": name, "cache_path": i.cfg.CachePath}, err)
		return nil, err
	}
	i.metrics.RecordFetch(name, raw.FromCache, i.now().Sub(start))
	i.log.Info("Loaded raw dataset", logger.Fields{
		"dataset":    name,
		"path":       raw.Path,
		"from_cache": raw.FromCache,
		"bytes":      len(raw.Text),
	})

	table, err := football.BuildTable(raw.Text, i.cfg.Catalog, years,
		football.WithSkipHeaderLines(i.cfg.SkipHeaderLines),
		football.WithObserver(logger.NewObserver(i.log)),
	)
	if err != nil {
		i.metrics.RecordBuildFailure(failureReason(err))
		i.log.Error("Failed to build table", logger.Fields{"dataset": name}, err)
		return nil, fmt.Errorf("building %s table: %w", name, err)
	}

	i.metrics.RecordTable(table, i.now())
	i.log.Info("Built table", logger.Fields{
		"dataset":    name,
		"parsed":     table.Parsed,
		"skipped":    table.Skipped,
		"boundaries": table.Boundaries,
		"records":    len(table.Records),
	})
	return table, nil
}

func failureReason(err error) string {
	var exhausted *football.CatalogExhaustedError
	switch {
	case errors.As(err, &exhausted):
		return "catalog_exhausted"
	case errors.Is(err, football.ErrEmptyCatalog):
		return "empty_catalog"
	default:
		return "other"
	}
}
