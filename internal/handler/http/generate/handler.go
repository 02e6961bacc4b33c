// Package generate exposes post generation over HTTP.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"nashr/internal/domain/entity"
	"nashr/internal/handler/http/bind"
	"nashr/internal/handler/http/middleware"
	"nashr/internal/handler/http/respond"
	"nashr/internal/observability/logging"
	"nashr/pkg/quota"
)

// Generator produces shaped output for a normalized request.
type Generator interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (entity.ShapedOutput, error)
}

// Usage limit response headers.
const (
	HeaderUsageLimit     = "X-Usage-Limit"
	HeaderUsageRemaining = "X-Usage-Remaining"
)

var timeNow = time.Now

// Handler serves POST /api/run and POST /api/generate.
// Gate and IPs are optional; a nil or disabled Gate admits every request.
type Handler struct {
	Svc  Generator
	Gate *quota.Gate
	IPs  middleware.IPExtractor
}

// ServeHTTP godoc
// @Summary      Generate social posts
// @Description  Generates ready-to-publish LinkedIn, X or Instagram text for a topic.
// @Description  "text" and "idea" are accepted as the topic. Setting "mode" or "strategic" returns a strategic plan.
// @Tags         generate
// @Accept       json
// @Produce      json
// @Param        request body Request true "Generation request"
// @Success      200 {object} Response
// @Header       200 {integer} X-Usage-Limit "Daily generation ceiling"
// @Header       200 {integer} X-Usage-Remaining "Generations left today"
// @Failure      400 {object} respond.ErrorBody "Invalid body or missing text"
// @Failure      401 {object} respond.ErrorBody "Preview credentials required"
// @Failure      429 {object} respond.ErrorBody "Daily usage limit reached"
// @Header       429 {integer} Retry-After "Seconds until the daily counter resets"
// @Failure      500 {object} respond.ErrorBody "Provider misconfigured or unreachable"
// @Failure      503 {object} respond.ErrorBody "Provider rate limited"
// @Failure      504 {object} respond.ErrorBody "Provider timed out"
// @Router       /api/run [post]
// @Router       /api/generate [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	body, err := bind.DecodeJSON[Request](r)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			respond.Error(w, http.StatusBadRequest, errors.New(verr.Message))
			return
		}
		logger.Debug("rejected request body", slog.Any("error", err))
		respond.Error(w, http.StatusBadRequest, bind.ErrInvalidBody)
		return
	}

	req, err := entity.NewGenerationRequest(body.Raw())
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			respond.Error(w, http.StatusBadRequest, errors.New(verr.Message))
			return
		}
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.admit(w, r) {
		return
	}

	out, err := h.Svc.Generate(ctx, req)
	if err != nil {
		code := StatusFor(ctx, err)
		logger.Error("generation failed",
			slog.String("platform", string(req.Platform)),
			slog.Bool("strategic", req.Strategic),
			slog.Int("status", code),
			slog.Any("error", err))
		writeGenerationError(w, code, err)
		return
	}

	if body.WantsText() {
		respond.JSON(w, http.StatusOK, Response{OK: true, Output: out.Text()})
		return
	}
	respond.JSON(w, http.StatusOK, Response{OK: true, Output: toOutputDTO(out)})
}

// admit runs the usage gate and reports whether the request may proceed.
// A denied request has already been answered.
func (h Handler) admit(w http.ResponseWriter, r *http.Request) bool {
	if !h.Gate.Enabled() {
		return true
	}

	d, err := h.Gate.Check(r.Context(), h.identity(r))
	if d != nil {
		w.Header().Set(HeaderUsageLimit, strconv.Itoa(d.Limit))
		w.Header().Set(HeaderUsageRemaining, strconv.Itoa(d.Remaining))
	}
	if errors.Is(err, quota.ErrLimitExceeded) {
		limit := h.Gate.Limit()
		if d != nil {
			w.Header().Set("Retry-After", strconv.FormatInt(d.RetryAfterSeconds(timeNow()), 10))
		}
		respond.Fail(w, http.StatusTooManyRequests, respond.ErrorBody{
			Error: "daily usage limit reached",
			Code:  "USAGE_LIMIT",
			Limit: limit,
		})
		return false
	}
	if err != nil {
		// Check only returns ErrLimitExceeded; anything else is treated as a store fault
		logging.FromContext(r.Context()).Warn("usage gate error, allowing request", slog.Any("error", err))
	}
	return true
}

func (h Handler) identity(r *http.Request) string {
	extractor := h.IPs
	if extractor == nil {
		extractor = &middleware.RemoteAddrExtractor{}
	}
	ip, err := extractor.ExtractIP(r)
	if err != nil || ip == "" {
		return r.RemoteAddr
	}
	return ip
}

// StatusFor maps a generation error onto an HTTP status.
//
// Configuration errors are 500. Upstream errors keep the provider status when it is
// a 4xx or 5xx, except 429 which becomes 503 so clients can tell it apart from the
// usage gate. Transport errors are 500, or 504 when a deadline or an attempt timeout was hit.
func StatusFor(ctx context.Context, err error) int {
	var cerr *entity.CompletionError
	if !errors.As(err, &cerr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusInternalServerError
	}

	switch cerr.Kind {
	case entity.KindUpstream:
		switch {
		case cerr.StatusCode == http.StatusTooManyRequests:
			return http.StatusServiceUnavailable
		case cerr.StatusCode >= 400 && cerr.StatusCode < 600:
			return cerr.StatusCode
		default:
			return http.StatusInternalServerError
		}
	case entity.KindTransport:
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, entity.ErrAttemptTimeout) ||
			errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeGenerationError surfaces completion errors with their (sanitized) message.
// Other errors are hidden behind a generic message.
func writeGenerationError(w http.ResponseWriter, code int, err error) {
	var cerr *entity.CompletionError
	if errors.As(err, &cerr) {
		respond.Error(w, code, cerr)
		return
	}
	respond.SafeError(w, code, err)
}
