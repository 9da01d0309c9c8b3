package site

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bilgisen/haxsite/internal/cache"
	"github.com/bilgisen/haxsite/internal/config"
	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/bilgisen/haxsite/internal/metrics"
	"github.com/bilgisen/haxsite/internal/models"
	"github.com/rs/zerolog"
)

// Analyzer runs the normalize, fetch, validate, transform chain for one
// trigger and replaces the stored snapshot on success.
//
// Concurrent triggers are not coordinated: every completed run replaces the
// snapshot, so the run that finishes last wins whatever the trigger order.
// Snapshot.Trigger records which trigger produced the stored view.
type Analyzer struct {
	Normalizer  Normalizer
	Fetcher     *Fetcher
	Validator   *Validator
	Transformer *Transformer
	Store       cache.SnapshotStore
	Metrics     *metrics.Metrics
	Log         *zerolog.Logger

	triggers atomic.Uint64
}

func NewAnalyzer(cfg *config.Config, store cache.SnapshotStore, m *metrics.Metrics) *Analyzer {
	return &Analyzer{
		Normalizer: NewNormalizer(cfg.ResourceFile, cfg.SecureScheme),
		Fetcher: NewFetcher(FetcherOptions{
			Timeout:   cfg.FetchTimeout,
			UserAgent: "haxsite/1.0",
		}),
		Validator:   NewValidator(),
		Transformer: NewTransformer(cfg.BaseDomain, cfg.PublicHost, cfg.DateLayout),
		Store:       store,
		Metrics:     m,
		Log:         logger.Component("analyzer"),
	}
}

// Analyze handles one trigger. On a FetchError or ErrInvalidFormat the
// failure is logged and the stored snapshot is left untouched.
func (a *Analyzer) Analyze(ctx context.Context, input string) (*models.Snapshot, error) {
	trigger := a.triggers.Add(1)
	url := a.Normalizer.Normalize(input)
	log := a.Log.With().
		Uint64("trigger", trigger).
		Str("url", url).
		Logger()

	start := time.Now()
	log.Info().Msg("Starting site analysis")

	payload, err := a.Fetcher.Fetch(ctx, url)
	a.observeFetch(time.Since(start))
	if err != nil {
		log.Error().Err(err).Msg("Error fetching data")
		a.count(metrics.OutcomeFetchError)
		return nil, err
	}

	if err := a.Validator.Validate(payload); err != nil {
		log.Error().Err(err).Msg("Rejected site document")
		a.count(metrics.OutcomeInvalid)
		return nil, err
	}

	site, items := a.Transformer.Transform(payload)
	snap := &models.Snapshot{
		Site:      site,
		Items:     items,
		SourceURL: url,
		Trigger:   trigger,
		FetchedAt: time.Now().UTC(),
	}

	if err := a.Store.Replace(ctx, snap); err != nil {
		log.Error().Err(err).Msg("Error storing snapshot")
		a.count(metrics.OutcomeStoreError)
		return nil, fmt.Errorf("error storing snapshot: %w", err)
	}

	a.count(metrics.OutcomeOK)
	if a.Metrics != nil {
		a.Metrics.SnapshotItems.Set(float64(len(items)))
	}

	log.Info().
		Str("site", site.Name).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Site analyzed")

	return snap, nil
}

// IsFetchError reports whether err came from retrieving or decoding the document.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func (a *Analyzer) count(outcome string) {
	if a.Metrics != nil {
		a.Metrics.AnalyzeTotal.WithLabelValues(outcome).Inc()
	}
}

func (a *Analyzer) observeFetch(d time.Duration) {
	if a.Metrics != nil {
		a.Metrics.FetchDuration.Observe(d.Seconds())
	}
}
