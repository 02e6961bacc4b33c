// Package retry runs outbound calls again when the failure looks transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config describes a backoff schedule. The wait before retry n (1-based) is
// InitialDelay*Multiplier^(n-1), capped at MaxDelay, plus up to JitterFraction of
// that value chosen at random.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
}

// CompletionConfig is the schedule for completion providers. Attempts are clamped to
// [1, 2]; a third paid call rarely succeeds where two failed.
func CompletionConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:    min(max(maxAttempts, 1), 2),
		InitialDelay:   time.Second,
		MaxDelay:       5 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.2,
	}
}

// TrendFeedConfig is the schedule for trend feed fetches.
func TrendFeedConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// Delay returns the wait before retry n without jitter.
func (c Config) Delay(n int) time.Duration {
	d := float64(c.InitialDelay)
	for i := 1; i < n; i++ {
		d *= c.Multiplier
		if c.MaxDelay > 0 && d >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && time.Duration(d) > c.MaxDelay {
		return c.MaxDelay
	}
	return time.Duration(d)
}

func (c Config) jittered(n int) time.Duration {
	d := c.Delay(n)
	f := min(c.JitterFraction, 1)
	if f <= 0 || d <= 0 {
		return d
	}
	// #nosec G404 -- jitter does not need a CSPRNG
	return d + time.Duration(rand.Float64()*f*float64(d))
}

// WithBackoff calls fn until it succeeds, returns a permanent error, the attempts
// run out or ctx is done. A permanent error is returned as is; exhaustion wraps the
// last error.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)

	var err error
	for n := 1; ; n++ {
		if err = fn(); err == nil {
			if n > 1 {
				slog.InfoContext(ctx, "call succeeded after retry", slog.Int("attempt", n))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if n == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := cfg.jittered(n)
		slog.WarnContext(ctx, "transient failure, retrying",
			slog.Int("attempt", n),
			slog.Int("max_attempts", attempts),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		}
	}
}

// temporary is implemented by errors that classify themselves, such as
// entity.CompletionError.
type temporary interface {
	Temporary() bool
}

// IsRetryable reports whether another attempt could succeed.
func IsRetryable(err error) bool {
	var (
		tmp    temporary
		netErr net.Error
		status *StatusError
	)
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &status):
		return retryableStatus(status.Code)
	case errors.As(err, &netErr) && netErr.Timeout():
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	// net.OpError also has Temporary, so self classification is consulted last.
	if errors.As(err, &tmp) {
		return tmp.Temporary()
	}
	return false
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// StatusError is a non-2xx HTTP response from an upstream.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("upstream responded %d", e.Code)
	}
	return "upstream responded " + e.Status
}
