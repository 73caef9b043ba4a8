// Package feed retrieves daily rate quotes from the configured JSON feeds.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/SscSPs/forex_import_job/internal/core/domain"
	"github.com/SscSPs/forex_import_job/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	feedDateLayout = "2006-01-02"
	// maxBodyBytes bounds a single feed response.
	maxBodyBytes = 4 << 20
)

// ratesResponse is the JSON body of a latest-rates feed.
type ratesResponse struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base"`
	Date    string                     `json:"date"`
	Rates   map[string]decimal.Decimal `json:"rates"`
}

// HTTPFeedClient fetches every configured feed concurrently.
type HTTPFeedClient struct {
	httpClient *http.Client
	urls       []string
	now        func() time.Time
}

// NewHTTPFeedClient creates a client for urls. timeout applies to each request.
func NewHTTPFeedClient(urls []string, timeout time.Duration) *HTTPFeedClient {
	return &HTTPFeedClient{
		httpClient: &http.Client{Timeout: timeout},
		urls:       append([]string(nil), urls...),
		now:        time.Now,
	}
}

// FetchObservations fetches all feeds, one goroutine per URL. Any failing feed fails the whole
// call and no partial result is returned. Observations keep the configured feed order; within a
// feed they are sorted by quote code.
func (c *HTTPFeedClient) FetchObservations(ctx context.Context) ([]domain.RateObservation, error) {
	results := make([][]domain.RateObservation, len(c.urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range c.urls {
		g.Go(func() error {
			observations, err := c.fetchOne(gctx, url)
			if err != nil {
				return err
			}
			results[i] = observations
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.RateObservation
	for _, observations := range results {
		all = append(all, observations...)
	}
	return all, nil
}

func (c *HTTPFeedClient) fetchOne(ctx context.Context, url string) ([]domain.RateObservation, error) {
	logger := logging.FromContext(ctx).With(slog.String("feed_url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewFetchError(fmt.Sprintf("invalid feed request %s", url), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(fmt.Sprintf("GET %s", url), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewFetchError(fmt.Sprintf("reading %s", url), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewFetchError(fmt.Sprintf("GET %s returned status %d", url, resp.StatusCode), nil)
	}

	fetchedAt := c.now().UTC()
	observations, err := parseRates(body, url, fetchedAt, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("Feed fetched", slog.Int("observations", len(observations)))
	return observations, nil
}

// parseRates converts one feed body into observations.
func parseRates(body []byte, url string, fetchedAt time.Time, logger *slog.Logger) ([]domain.RateObservation, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, apperrors.NewPayloadError(fmt.Sprintf("empty body from %s", url), nil)
	}

	var payload ratesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewPayloadError(fmt.Sprintf("malformed body from %s", url), err)
	}
	if payload.Base == "" {
		return nil, apperrors.NewPayloadError(fmt.Sprintf("missing base currency in %s", url), nil)
	}
	if payload.Rates == nil {
		return nil, apperrors.NewPayloadError(fmt.Sprintf("missing rates in %s", url), nil)
	}
	if !payload.Success {
		logger.Warn("Feed reported success=false, processing rates anyway")
	}

	var observedDate *time.Time
	if payload.Date != "" {
		if d, err := time.Parse(feedDateLayout, payload.Date); err == nil {
			observedDate = &d
		} else {
			logger.Debug("Unparsable feed date", slog.String("date", payload.Date))
		}
	}

	quotes := make([]string, 0, len(payload.Rates))
	for quote := range payload.Rates {
		quotes = append(quotes, quote)
	}
	sort.Strings(quotes)

	observations := make([]domain.RateObservation, 0, len(quotes))
	for _, quote := range quotes {
		observations = append(observations, domain.RateObservation{
			BaseCurrency:  payload.Base,
			QuoteCurrency: quote,
			Rate:          payload.Rates[quote],
			ObservedDate:  observedDate,
			FetchedAt:     fetchedAt,
			SourceURL:     url,
		})
	}
	return observations, nil
}
