package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"nashr/internal/resilience/circuitbreaker"
)

// ReadabilityFetcher extracts article text with go-readability, falling back
// to page metadata and paragraphs via goquery. It implements generate.SourceFetcher.
//
// Every URL and redirect hop is validated against SSRF before it is requested.
// Safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
	resolve        Resolver
}

// NewReadabilityFetcher creates a fetcher for config.
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceFetchConfig()),
		config:         config,
		resolve:        defaultResolver,
	}

	// Timeout is applied per request through the context
	f.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), req.URL.String(), f.config.DenyPrivateIPs, f.resolve); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchText returns the readable text of the page at urlStr, truncated to MaxChars runes.
func (f *ReadabilityFetcher) FetchText(ctx context.Context, urlStr string) (string, error) {
	if !f.config.Enabled {
		return "", ErrDisabled
	}
	if err := validateURL(ctx, urlStr, f.config.DenyPrivateIPs, f.resolve); err != nil {
		return "", err
	}

	text, err := circuitbreaker.Run(f.circuitBreaker, func() (string, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		return "", err
	}
	return truncateRunes(text, f.config.MaxChars), nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Redirects may have changed the base URL
	pageURL := resp.Request.URL

	if article, err := readability.FromReader(bytes.NewReader(htmlBytes), pageURL); err == nil {
		if text := collapseSpace(article.TextContent); text != "" {
			return text, nil
		}
	} else {
		slog.DebugContext(ctx, "readability failed, falling back to page metadata",
			slog.String("url", urlStr),
			slog.Any("error", err))
	}

	text, err := fallbackText(htmlBytes)
	if err != nil {
		return "", err
	}
	return text, nil
}

// fallbackText collects the title, meta descriptions and paragraph text.
func fallbackText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}

	var parts []string
	add := func(s string) {
		if s = collapseSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		add(desc)
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		add(desc)
	}
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})

	if len(parts) == 0 {
		return "", ErrNoContent
	}
	return strings.Join(parts, "\n"), nil
}

func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
