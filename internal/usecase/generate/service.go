// Package generate implements post generation: prompt assembly, completion calls and
// shaping of the model output into per-platform text.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"nashr/internal/domain/entity"
	"nashr/internal/observability/metrics"
	"nashr/internal/observability/tracing"
)

// Completer sends one prompt to a language model and returns the raw text answer.
// Implementations return *entity.CompletionError on failure.
type Completer interface {
	Complete(ctx context.Context, prompt entity.PromptPayload) (string, error)
}

// SourceFetcher loads readable article text for a source URL.
type SourceFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// TrendSource lists currently trending subjects.
type TrendSource interface {
	Trends(ctx context.Context) ([]string, error)
}

// Service generates ready-to-publish posts.
// Sources and Trends are optional; their failures never fail a generation.
type Service struct {
	Completer Completer
	Brand     Brand
	Sources   SourceFetcher
	Trends    TrendSource
}

// Generate produces the shaped output for req.
//
// A request for both LinkedIn and X makes one completion call per platform, concurrently.
// If either call fails the whole generation fails and no partial output is returned.
// Strategic requests make a single JSON-contract call.
func (s *Service) Generate(ctx context.Context, req entity.GenerationRequest) (entity.ShapedOutput, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "generate.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("nashr.platform", string(req.Platform)),
		attribute.String("nashr.language", string(req.Language)),
		attribute.Bool("nashr.strategic", req.Strategic),
	)

	start := time.Now()
	req = s.enrich(ctx, req)

	var (
		out entity.ShapedOutput
		err error
	)
	if req.Strategic {
		out, err = s.generateStrategic(ctx, req)
	} else {
		out, err = s.generatePosts(ctx, req)
	}

	metrics.RecordGeneration(string(req.Platform), modeLabel(req), err == nil, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return entity.ShapedOutput{}, err
	}

	out.Label = req.Platform.Label(brandName(s.Brand))
	return out, nil
}

// Prompts returns the prompts Generate would send for req, without calling the model.
func (s *Service) Prompts(req entity.GenerationRequest) []entity.PromptPayload {
	if req.Strategic {
		return []entity.PromptPayload{BuildStrategicPrompt(req, s.Brand)}
	}
	platforms := req.Platform.Platforms()
	prompts := make([]entity.PromptPayload, len(platforms))
	for i, p := range platforms {
		prompts[i] = BuildPrompt(req, p, s.Brand)
	}
	return prompts
}

func (s *Service) generatePosts(ctx context.Context, req entity.GenerationRequest) (entity.ShapedOutput, error) {
	platforms := req.Platform.Platforms()
	results := make([]Shaped, len(platforms))
	shaper := Shaper{Marker: s.Brand.Marker}

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range platforms {
		g.Go(func() error {
			raw, err := s.Completer.Complete(gctx, BuildPrompt(req, p, s.Brand))
			if err != nil {
				return fmt.Errorf("generate %s post: %w", p, err)
			}
			results[i] = shaper.Shape(raw, p)
			if results[i].Source == "raw" && len(platforms) > 1 {
				slog.DebugContext(gctx, "model output had no platform section, using whole text",
					slog.String("platform", string(p)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.ShapedOutput{}, err
	}

	out := entity.ShapedOutput{Language: req.Language, Platform: req.Platform}
	for i, p := range platforms {
		out.Set(p, results[i].Text)
		metrics.RecordShaping(string(p), results[i].Source, results[i].Truncated)
		if results[i].Truncated {
			out.Warnings = append(out.Warnings, truncationWarning(p))
		}
	}
	return out, nil
}

func (s *Service) generateStrategic(ctx context.Context, req entity.GenerationRequest) (entity.ShapedOutput, error) {
	raw, err := s.Completer.Complete(ctx, BuildStrategicPrompt(req, s.Brand))
	if err != nil {
		return entity.ShapedOutput{}, fmt.Errorf("generate strategic content: %w", err)
	}

	out, warnings := Shaper{Marker: s.Brand.Marker}.ShapeStrategic(raw, req)
	source := "json"
	if out.Strategic == nil {
		source = "raw"
		slog.WarnContext(ctx, "strategic answer was not valid JSON, fell back to plain text",
			slog.Any("warnings", warnings))
	}
	metrics.RecordShaping("strategic", source, false)
	out.Warnings = warnings
	return out, nil
}

// enrich adds source article text and trend suggestions. Failures are logged and ignored.
func (s *Service) enrich(ctx context.Context, req entity.GenerationRequest) entity.GenerationRequest {
	if req.SourceURL != "" && req.SourceText == "" && s.Sources != nil {
		txt, err := s.Sources.FetchText(ctx, req.SourceURL)
		metrics.RecordEnrichment("source", err == nil)
		if err != nil {
			slog.WarnContext(ctx, "source fetch failed, generating without it",
				slog.String("url", req.SourceURL),
				slog.Any("error", err))
		} else {
			req.SourceText = txt
		}
	}

	if req.Strategic && len(req.Trends.Trends) == 0 && s.Trends != nil {
		trends, err := s.Trends.Trends(ctx)
		metrics.RecordEnrichment("trends", err == nil)
		if err != nil {
			slog.WarnContext(ctx, "trend lookup failed, generating without trends", slog.Any("error", err))
		} else {
			req.Trends.Trends = trends
		}
	}
	return req
}

func modeLabel(req entity.GenerationRequest) string {
	if !req.Strategic {
		return "standard"
	}
	return string(req.Mode)
}
