package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bilgisen/haxsite/internal/cache"
	"github.com/bilgisen/haxsite/internal/config"
	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/bilgisen/haxsite/internal/metrics"
	"github.com/bilgisen/haxsite/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeDoc = `{
	"metadata": {"site": {"name": "Acme", "logo": "logo.png"}, "theme": {"name": "polaris"}},
	"description": "Acme docs",
	"items": [
		{"title": "Post", "slug": "p1", "metadata": {"images": ["img.png"]}},
		{"title": "Draft"}
	]
}`

type testAnalyzer struct {
	*Analyzer
	store   *cache.MemoryStore
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func newTestAnalyzer(t *testing.T, srv *httptest.Server) *testAnalyzer {
	t.Helper()
	store := cache.NewMemoryStore()
	m := metrics.New(nil)
	a := NewAnalyzer(config.FromEnv(), store, m)
	a.Fetcher = NewFetcher(FetcherOptions{Transport: srv.Client().Transport})

	var logs bytes.Buffer
	l := logger.New(zerolog.SyncWriter(&logs), logger.DebugLevel, false)
	a.Log = &l

	return &testAnalyzer{Analyzer: a, store: store, metrics: m, logs: &logs}
}

// hostOf strips the scheme so the normalizer has something to add.
func hostOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "https://")
}

func TestAnalyzeEndToEnd(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/site.json", r.URL.Path)
		w.Write([]byte(acmeDoc))
	}))
	defer srv.Close()
	ta := newTestAnalyzer(t, srv)

	snap, err := ta.Analyze(context.Background(), hostOf(srv))
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/site.json", snap.SourceURL)
	assert.Equal(t, uint64(1), snap.Trigger)
	assert.Equal(t, "Acme", snap.Site.Name)
	assert.Equal(t, "https://haxtheweb.org/logo.png", snap.Site.LogoURL)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Post", snap.Items[0].Title)
	assert.Equal(t, "Draft", snap.Items[1].Title)

	stored, err := ta.store.Current(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, stored)

	assert.Equal(t, float64(1), testutil.ToFloat64(ta.metrics.AnalyzeTotal.WithLabelValues(metrics.OutcomeOK)))
	assert.Equal(t, float64(2), testutil.ToFloat64(ta.metrics.SnapshotItems))
}

func TestAnalyzeFailuresLeaveSnapshotUnchanged(t *testing.T) {
	var mu sync.Mutex
	body := acmeDoc
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Write([]byte(body))
	}))
	defer srv.Close()
	ta := newTestAnalyzer(t, srv)
	ctx := context.Background()

	first, err := ta.Analyze(ctx, hostOf(srv))
	require.NoError(t, err)

	mu.Lock()
	body = `{"metadata": {}}`
	mu.Unlock()
	_, err = ta.Analyze(ctx, hostOf(srv))
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, ta.logs.String(), "invalid data format")

	mu.Lock()
	body = `<html>`
	mu.Unlock()
	_, err = ta.Analyze(ctx, hostOf(srv))
	assert.True(t, IsFetchError(err))
	assert.Contains(t, ta.logs.String(), "Error fetching data")

	current, err := ta.store.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, first, current)

	assert.Equal(t, float64(1), testutil.ToFloat64(ta.metrics.AnalyzeTotal.WithLabelValues(metrics.OutcomeInvalid)))
	assert.Equal(t, float64(1), testutil.ToFloat64(ta.metrics.AnalyzeTotal.WithLabelValues(metrics.OutcomeFetchError)))
}

func TestAnalyzeLastCompletionWins(t *testing.T) {
	slowArrived := make(chan struct{})
	releaseSlow := make(chan struct{})
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/slow/site.json":
			close(slowArrived)
			<-releaseSlow
			w.Write([]byte(`{"metadata":{"site":{"name":"Slow"}},"items":[]}`))
		case "/fast/site.json":
			w.Write([]byte(`{"metadata":{"site":{"name":"Fast"}},"items":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ta := newTestAnalyzer(t, srv)
	ctx := context.Background()

	slowDone := make(chan error, 1)
	go func() {
		_, err := ta.Analyze(ctx, hostOf(srv)+"/slow")
		slowDone <- err
	}()
	<-slowArrived

	fast, err := ta.Analyze(ctx, hostOf(srv)+"/fast")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), fast.Trigger)

	current, _ := ta.store.Current(ctx)
	assert.Equal(t, "Fast", current.Site.Name)

	close(releaseSlow)
	require.NoError(t, <-slowDone)

	// The earlier trigger finished last, so its view replaced the newer one.
	current, _ = ta.store.Current(ctx)
	assert.Equal(t, "Slow", current.Site.Name)
	assert.Equal(t, uint64(1), current.Trigger)
}

type failingStore struct{ *cache.MemoryStore }

func (f failingStore) Replace(context.Context, *models.Snapshot) error {
	return errors.New("store down")
}

func TestAnalyzeStoreFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(acmeDoc))
	}))
	defer srv.Close()
	ta := newTestAnalyzer(t, srv)
	ta.Store = failingStore{ta.store}

	_, err := ta.Analyze(context.Background(), hostOf(srv))
	require.Error(t, err)
	assert.False(t, IsFetchError(err))
	assert.NotErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, float64(1), testutil.ToFloat64(ta.metrics.AnalyzeTotal.WithLabelValues(metrics.OutcomeStoreError)))
}
