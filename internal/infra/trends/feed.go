// Package trends supplies trending subjects from RSS and Atom feeds for
// strategic prompts.
package trends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"nashr/internal/resilience/circuitbreaker"
	"nashr/internal/resilience/retry"
	"nashr/internal/utils/text"
)

// ErrNoTrends is returned when every feed failed or none yielded a title.
var ErrNoTrends = errors.New("no trends available")

// FeedSource reads item titles from the configured feeds. It implements
// generate.TrendSource.
type FeedSource struct {
	client         *http.Client
	config         Config
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewFeedSource creates a feed source. client may be nil.
func NewFeedSource(client *http.Client, cfg Config) *FeedSource {
	if client == nil {
		client = &http.Client{}
	}
	return &FeedSource{
		client:         client,
		config:         cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.TrendFeedConfig()),
		retryConfig:    retry.TrendFeedConfig(),
	}
}

// Trends fetches all feeds concurrently and merges their newest titles in
// feed order, without duplicates. A failing feed is logged and skipped.
func (s *FeedSource) Trends(ctx context.Context) ([]string, error) {
	if !s.config.Enabled() {
		return nil, ErrNoTrends
	}

	results := make([][]string, len(s.config.FeedURLs))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range s.config.FeedURLs {
		g.Go(func() error {
			titles, err := s.fetch(gctx, u)
			if err != nil {
				slog.WarnContext(gctx, "trend feed failed",
					slog.String("url", u),
					slog.Any("error", err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i] = titles
			return nil
		})
	}
	_ = g.Wait()

	merged := merge(results, s.config.MaxTrends)
	if len(merged) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrNoTrends, errors.Join(errs...))
		}
		return nil, ErrNoTrends
	}
	return merged, nil
}

func (s *FeedSource) fetch(ctx context.Context, feedURL string) ([]string, error) {
	var titles []string
	err := retry.WithBackoff(ctx, s.retryConfig, func() error {
		res, err := circuitbreaker.Run(s.circuitBreaker, func() ([]string, error) {
			return s.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "trend feed circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", s.circuitBreaker.State().String()))
			}
			return err
		}
		titles = res
		return nil
	})
	return titles, err
}

func (s *FeedSource) doFetch(ctx context.Context, feedURL string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.UserAgent = "NashrBot/1.0"
	fp.Client = s.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.StatusError{Code: httpErr.StatusCode, Status: httpErr.Status}
		}
		return nil, err
	}

	titles := make([]string, 0, s.config.PerFeed)
	for _, it := range feed.Items {
		if len(titles) == s.config.PerFeed {
			break
		}
		if t := text.StripHTML(it.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

func merge(lists [][]string, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, t := range list {
			key := strings.ToLower(t)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}
