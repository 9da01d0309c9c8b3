package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/bilgisen/haxsite/internal/models"
	"github.com/go-resty/resty/v2"
)

// FetchError reports a transport failure or a body that is not JSON.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var errTrailingData = errors.New("unexpected data after JSON document")

// FetcherOptions tunes the underlying resty client.
type FetcherOptions struct {
	// Timeout of zero leaves timing to the transport.
	Timeout time.Duration
	// Transport replaces the default round tripper (tests use it to trust
	// httptest TLS certificates).
	Transport http.RoundTripper
	UserAgent string
}

type Fetcher struct {
	client *resty.Client
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	client := resty.New().SetRetryCount(0)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Fetcher{client: client}
}

// Fetch performs a single GET of url and decodes the body as one JSON
// document. The status code does not decide acceptance; a JSON error body
// is handed on to validation like any other payload.
func (f *Fetcher) Fetch(ctx context.Context, url string) (models.RawSitePayload, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return models.RawSitePayload{}, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		logger.Get().Warn().
			Str("url", url).
			Int("status", resp.StatusCode()).
			Msg("Site document served with non-success status")
	}

	v, err := decodeJSON(resp.Body())
	if err != nil {
		return models.RawSitePayload{}, &FetchError{URL: url, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return models.NewRawSitePayload(v), nil
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}
