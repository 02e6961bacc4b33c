package generate

import (
	"fmt"
	"strings"

	"nashr/internal/domain/entity"
	"nashr/internal/utils/text"
)

// platformKeys lists, per platform, the JSON keys, tag names and heading labels
// a model may use for that platform's section. The first key is canonical.
var platformKeys = map[entity.Platform][]string{
	entity.PlatformX:         {"x", "twitter", "tweet", "x (twitter)", "إكس", "تويتر"},
	entity.PlatformLinkedIn:  {"linkedin", "linked in", "لينكدإن", "لينكد إن", "لينكدان"},
	entity.PlatformInstagram: {"instagram", "insta", "انستغرام", "إنستغرام", "انستقرام"},
}

// genericKeys are JSON keys accepted for single-post answers.
var genericKeys = []string{"text", "post", "content", "output"}

// Shaper turns raw completion text into publishable per-platform text.
type Shaper struct {
	// Marker is prepended to every post that does not already start with it. Empty disables it.
	Marker string
}

// Shaped is the result of shaping one platform's text.
type Shaped struct {
	Text      string
	Truncated bool
	// Source records which extraction step produced Text: json, tag, heading or raw.
	Source string
}

// Shape extracts the section for platform from raw and finishes it.
func (s Shaper) Shape(raw string, platform entity.Platform) Shaped {
	body, source := Extract(raw, platform)
	out, truncated := s.Finish(body, platform)
	return Shaped{Text: out, Truncated: truncated, Source: source}
}

// Finish trims text, enforces the brand marker and clamps it to the platform ceiling.
func (s Shaper) Finish(body string, platform entity.Platform) (string, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", false
	}
	body = text.EnsurePrefix(body, s.Marker)
	max := platform.MaxLength()
	if max <= 0 {
		return body, false
	}
	clamped := text.Clamp(body, max)
	return clamped, clamped != body
}

// Extract finds the text meant for platform in raw model output. It prefers a JSON
// envelope spanning the whole answer, then [TAG]...[/TAG] sections, then
// heading-labeled sections, and finally treats the whole text as the platform's post.
func Extract(raw string, platform entity.Platform) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "raw"
	}
	keys := platformKeys[platform]

	if res := wholeJSON(raw); res.OK {
		candidates := append(append([]string{}, keys...), genericKeys...)
		for _, k := range candidates {
			if v := text.StringField(res.Value, k); v != "" {
				return v, "json"
			}
		}
	}

	for _, k := range keys {
		if v := text.ExtractTag(raw, k); v != "" {
			return v, "tag"
		}
	}

	sections := text.SplitSections(raw, allLabels()...)
	if _, unlabeled := sections[""]; !unlabeled {
		for _, k := range keys {
			if v := sections[strings.ToLower(k)]; v != "" {
				return v, "heading"
			}
		}
	}

	return raw, "raw"
}

// wholeJSON parses raw only when the answer, without code fences, is a single JSON
// object. Braces quoted inside a prose post never count as an envelope.
func wholeJSON(raw string) text.JSONResult {
	body := strings.TrimSpace(text.StripCodeFence(raw))
	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return text.JSONResult{Reason: text.ReasonNoObject}
	}
	return text.ParseJSON(body)
}

func allLabels() []string {
	var labels []string
	for _, p := range []entity.Platform{entity.PlatformLinkedIn, entity.PlatformInstagram, entity.PlatformX} {
		labels = append(labels, platformKeys[p]...)
	}
	return labels
}

// strategicEnvelope mirrors the JSON contract of the strategic prompt.
type strategicEnvelope struct {
	OK        *bool                 `json:"ok"`
	X         string                `json:"x"`
	LinkedIn  string                `json:"linkedin"`
	Instagram string                `json:"instagram"`
	Mode      string                `json:"mode"`
	Strategic entity.StrategicPlan  `json:"strategic"`
	Series    []entity.SeriesItem   `json:"series"`
	Replies   []entity.ReplyItem    `json:"replies"`
	Trend     entity.TrendAdvice    `json:"trend"`
	Notes     entity.StrategicNotes `json:"notes"`
}

// ShapeStrategic parses a strategic-mode answer. When the answer is not the expected
// JSON object it falls back to plain-text shaping and reports a warning instead of failing.
func (s Shaper) ShapeStrategic(raw string, req entity.GenerationRequest) (entity.ShapedOutput, []string) {
	out := entity.ShapedOutput{Language: req.Language, Platform: req.Platform}
	var warnings []string

	var env strategicEnvelope
	res := text.DecodeJSON(raw, &env)
	if !res.OK {
		warnings = append(warnings, "model returned unstructured output: "+res.Reason)
		for _, p := range req.Platform.Platforms() {
			shaped := s.Shape(raw, p)
			out.Set(p, shaped.Text)
			if shaped.Truncated {
				warnings = append(warnings, truncationWarning(p))
			}
		}
		return out, warnings
	}
	if env.OK != nil && !*env.OK {
		warnings = append(warnings, "model marked its answer as not ok")
	}

	for _, p := range []entity.Platform{entity.PlatformLinkedIn, entity.PlatformX, entity.PlatformInstagram} {
		body := env.field(p)
		if body == "" {
			continue
		}
		shaped, truncated := s.Finish(body, p)
		out.Set(p, shaped)
		if truncated {
			warnings = append(warnings, truncationWarning(p))
		}
	}

	series := make([]entity.SeriesItem, 0, len(env.Series))
	for i, item := range env.Series {
		if item.Day <= 0 {
			item.Day = i + 1
		}
		item.Title = strings.TrimSpace(item.Title)
		var truncated bool
		item.X, truncated = s.Finish(item.X, entity.PlatformX)
		if truncated {
			warnings = append(warnings, fmt.Sprintf("series day %d: %s", item.Day, truncationWarning(entity.PlatformX)))
		}
		item.LinkedIn, _ = s.Finish(item.LinkedIn, entity.PlatformLinkedIn)
		series = append(series, item)
	}

	mode := req.Mode
	if strings.TrimSpace(env.Mode) != "" {
		mode = entity.ParseMode(env.Mode)
	}
	trend := env.Trend
	trend.Recommendation = normalizeRecommendation(trend.Recommendation)

	out.Strategic = &entity.StrategicOutput{
		Mode:    mode,
		Plan:    env.Strategic,
		Series:  series,
		Replies: nonEmptyReplies(env.Replies),
		Trend:   trend,
		Notes:   env.Notes,
	}
	return out, warnings
}

func (e strategicEnvelope) field(p entity.Platform) string {
	switch p {
	case entity.PlatformX:
		return e.X
	case entity.PlatformLinkedIn:
		return e.LinkedIn
	case entity.PlatformInstagram:
		return e.Instagram
	}
	return ""
}

func normalizeRecommendation(r string) string {
	switch u := strings.ToUpper(strings.TrimSpace(r)); u {
	case "JOIN", "SKIP", "ADAPT":
		return u
	default:
		return "ADAPT"
	}
}

func nonEmptyReplies(in []entity.ReplyItem) []entity.ReplyItem {
	out := make([]entity.ReplyItem, 0, len(in))
	for _, r := range in {
		r.Reply = strings.TrimSpace(r.Reply)
		if r.Reply == "" {
			continue
		}
		r.Scenario = strings.TrimSpace(r.Scenario)
		out = append(out, r)
	}
	return out
}

func truncationWarning(p entity.Platform) string {
	return fmt.Sprintf("%s text truncated to %d characters", p.DisplayName(), p.MaxLength())
}
