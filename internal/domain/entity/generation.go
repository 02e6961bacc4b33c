package entity

import (
	"strconv"
	"strings"
)

// Platform is the normalized publishing target of a generation request.
type Platform string

const (
	PlatformX         Platform = "x"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	// PlatformBoth produces one LinkedIn post and one X post.
	PlatformBoth Platform = "both"
)

// Per-platform character ceilings, counted in runes.
const (
	MaxXLength         = 280
	MaxLinkedInLength  = 3000
	MaxInstagramLength = 2200
)

// ParsePlatform normalizes free-form platform input such as "LinkedIn + X",
// "linkedin", "X (Twitter)" or "both". Empty or unrecognized input maps to PlatformBoth.
func ParsePlatform(raw string) Platform {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return PlatformBoth
	}

	hasLinkedIn := strings.Contains(p, "linkedin")
	hasX := hasXToken(p)
	hasInstagram := strings.Contains(p, "instagram") || strings.Contains(p, "insta")

	switch {
	case p == "both" || p == "all":
		return PlatformBoth
	case hasLinkedIn && (hasX || strings.Contains(p, "+") || strings.Contains(p, "both")):
		return PlatformBoth
	case hasLinkedIn:
		return PlatformLinkedIn
	case hasInstagram:
		return PlatformInstagram
	case hasX:
		return PlatformX
	default:
		return PlatformBoth
	}
}

// hasXToken reports whether "x" appears as a standalone token or "twitter" appears anywhere.
func hasXToken(p string) bool {
	if strings.Contains(p, "twitter") {
		return true
	}
	fields := strings.FieldsFunc(p, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	for _, f := range fields {
		if f == "x" {
			return true
		}
	}
	return false
}

// Platforms returns the individual platforms a request produces, in output order.
func (p Platform) Platforms() []Platform {
	if p == PlatformBoth {
		return []Platform{PlatformLinkedIn, PlatformX}
	}
	return []Platform{p}
}

// MaxLength returns the rune ceiling for a single platform. Zero means unbounded.
func (p Platform) MaxLength() int {
	switch p {
	case PlatformX:
		return MaxXLength
	case PlatformLinkedIn:
		return MaxLinkedInLength
	case PlatformInstagram:
		return MaxInstagramLength
	default:
		return 0
	}
}

// DisplayName is the human name used inside prompts.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformX:
		return "X"
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformInstagram:
		return "Instagram"
	case PlatformBoth:
		return "LinkedIn + X"
	default:
		return string(p)
	}
}

// Label returns the product label shown next to a result, e.g. "Nashr (LinkedIn + X)".
func (p Platform) Label(brand string) string {
	switch p {
	case PlatformX, PlatformLinkedIn, PlatformInstagram, PlatformBoth:
		return brand + " (" + p.DisplayName() + ")"
	default:
		return brand
	}
}

// Language is the output language. Only Arabic and English are supported.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// ParseLanguage returns LanguageEnglish for "en"/"english" in any case, LanguageArabic otherwise.
func ParseLanguage(raw string) Language {
	l := strings.ToLower(strings.TrimSpace(raw))
	if l == "en" || l == "english" || strings.HasPrefix(l, "en-") || strings.HasPrefix(l, "en_") {
		return LanguageEnglish
	}
	return LanguageArabic
}

// Mode selects the strategic content shape.
type Mode string

const (
	ModePost     Mode = "post"
	ModeSeries   Mode = "series"
	ModeReply    Mode = "reply"
	ModeCampaign Mode = "campaign"
	ModeAd       Mode = "ad"
)

// ParseMode normalizes a mode, defaulting to ModePost.
func ParseMode(raw string) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModePost, ModeSeries, ModeReply, ModeCampaign, ModeAd:
		return m
	default:
		return ModePost
	}
}

// GoalHorizon is the time frame a strategic goal is planned over.
type GoalHorizon string

const (
	HorizonNone      GoalHorizon = "none"
	HorizonTwoWeeks  GoalHorizon = "2w"
	HorizonOneMonth  GoalHorizon = "1m"
	HorizonFortyFive GoalHorizon = "45d"
	HorizonTwoMonths GoalHorizon = "2m"
)

// ParseGoalHorizon normalizes a horizon, defaulting to HorizonNone.
func ParseGoalHorizon(raw string) GoalHorizon {
	switch h := GoalHorizon(strings.ToLower(strings.TrimSpace(raw))); h {
	case HorizonNone, HorizonTwoWeeks, HorizonOneMonth, HorizonFortyFive, HorizonTwoMonths:
		return h
	default:
		return HorizonNone
	}
}

// Text returns the horizon described in the given language.
func (h GoalHorizon) Text(lang Language) string {
	if lang == LanguageEnglish {
		switch h {
		case HorizonTwoWeeks:
			return "Goal within 2 weeks (14 days)."
		case HorizonOneMonth:
			return "Goal within 1 month (30 days)."
		case HorizonFortyFive:
			return "Goal within 45 days."
		case HorizonTwoMonths:
			return "Goal within 2 months (60 days)."
		default:
			return "No timeframe: content for immediate use and general presence."
		}
	}
	switch h {
	case HorizonTwoWeeks:
		return "هدف خلال أسبوعين (14 يومًا)."
	case HorizonOneMonth:
		return "هدف خلال شهر (30 يومًا)."
	case HorizonFortyFive:
		return "هدف خلال 45 يومًا."
	case HorizonTwoMonths:
		return "هدف خلال شهرين (60 يومًا)."
	default:
		return "بدون إطار زمني: محتوى للنشر الآن يخدم الحضور العام."
	}
}

// Series size bounds.
const (
	MinSeriesCount     = 2
	MaxSeriesCount     = 12
	DefaultSeriesCount = 5
)

// ClampSeriesCount keeps a requested series size inside [MinSeriesCount, MaxSeriesCount].
// Zero or negative means "not set" and yields DefaultSeriesCount.
func ClampSeriesCount(n int) int {
	switch {
	case n <= 0:
		return DefaultSeriesCount
	case n < MinSeriesCount:
		return MinSeriesCount
	case n > MaxSeriesCount:
		return MaxSeriesCount
	default:
		return n
	}
}

// ParseSeriesCount accepts the loosely typed values a browser may send ("7", 7.0).
func ParseSeriesCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil {
			return DefaultSeriesCount
		}
		n = int(f)
	}
	return ClampSeriesCount(n)
}

// MaxWritingSamples bounds how many writing samples are folded into a prompt.
const MaxWritingSamples = 5

// DefaultVoiceName is used when a style profile names no voice.
const DefaultVoiceName = "Khalid"

// StyleProfile describes the author's voice.
type StyleProfile struct {
	VoiceName        string   `json:"voiceName,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	Topics           []string `json:"topics,omitempty"`
	Do               []string `json:"do,omitempty"`
	Dont             []string `json:"dont,omitempty"`
	SignaturePhrases []string `json:"signaturePhrases,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	WritingSamples   []string `json:"writingSamples,omitempty"`
}

// IsZero reports whether no field is set.
func (s StyleProfile) IsZero() bool {
	return s.VoiceName == "" && s.Bio == "" && len(s.Topics) == 0 && len(s.Do) == 0 &&
		len(s.Dont) == 0 && len(s.SignaturePhrases) == 0 && len(s.Keywords) == 0 &&
		len(s.WritingSamples) == 0
}

// TrendContext carries trending subjects the model may ride on.
type TrendContext struct {
	Trends             []string `json:"trends,omitempty"`
	RecommendationRule string   `json:"recommendationRule,omitempty"`
}

// GenerationRequest is a fully normalized request. Build it with NewGenerationRequest.
type GenerationRequest struct {
	Topic       string
	Platform    Platform
	Tone        string
	Audience    string
	Language    Language
	Strategic   bool
	Mode        Mode
	Goal        string
	GoalHorizon GoalHorizon
	SeriesCount int
	Style       StyleProfile
	Trends      TrendContext
	SourceURL   string
	SourceText  string
}

// RawGenerationInput is the unnormalized form accepted from transports.
type RawGenerationInput struct {
	Topic       string
	Platform    string
	Tone        string
	Audience    string
	Language    string
	Strategic   bool
	Mode        string
	Goal        string
	GoalHorizon string
	SeriesCount int
	Style       StyleProfile
	Trends      TrendContext
	SourceURL   string
}

// NewGenerationRequest validates and normalizes raw input.
// A blank topic yields a ValidationError on field "text".
func NewGenerationRequest(in RawGenerationInput) (GenerationRequest, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return GenerationRequest{}, &ValidationError{Field: "text", Message: "Missing text"}
	}

	lang := ParseLanguage(in.Language)
	req := GenerationRequest{
		Topic:       topic,
		Platform:    ParsePlatform(in.Platform),
		Tone:        strings.TrimSpace(in.Tone),
		Audience:    strings.TrimSpace(in.Audience),
		Language:    lang,
		Strategic:   in.Strategic || strings.TrimSpace(in.Mode) != "",
		Mode:        ParseMode(in.Mode),
		Goal:        strings.TrimSpace(in.Goal),
		GoalHorizon: ParseGoalHorizon(in.GoalHorizon),
		SeriesCount: ClampSeriesCount(in.SeriesCount),
		Style:       in.Style,
		Trends:      in.Trends,
		SourceURL:   strings.TrimSpace(in.SourceURL),
	}
	if req.Tone == "" {
		req.Tone = DefaultTone(lang)
	}
	if req.Audience == "" {
		req.Audience = DefaultAudience(lang)
	}
	if req.SourceURL != "" {
		if err := ValidateSourceURL(req.SourceURL); err != nil {
			return GenerationRequest{}, err
		}
	}
	return req, nil
}

// DefaultTone returns the tone used when the request names none.
func DefaultTone(lang Language) string {
	if lang == LanguageEnglish {
		return "Professional"
	}
	return "احترافية"
}

// DefaultAudience returns the audience used when the request names none.
func DefaultAudience(lang Language) string {
	if lang == LanguageEnglish {
		return "Business Owners"
	}
	return "رواد الأعمال"
}

// PromptPayload is the system/user message pair sent to a completion provider.
type PromptPayload struct {
	System string
	User   string
	// JSON asks the provider for a JSON object response where supported.
	JSON bool
}

// ShapedOutput is the post-processed, ready-to-publish result.
type ShapedOutput struct {
	LinkedIn  string           `json:"linkedin"`
	X         string           `json:"x"`
	Instagram string           `json:"instagram,omitempty"`
	Language  Language         `json:"language"`
	Platform  Platform         `json:"platform"`
	Label     string           `json:"label"`
	Strategic *StrategicOutput `json:"strategic,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
}

// Text returns the single text for a one-platform result, or both joined for PlatformBoth.
func (o ShapedOutput) Text() string {
	switch o.Platform {
	case PlatformX:
		return o.X
	case PlatformLinkedIn:
		return o.LinkedIn
	case PlatformInstagram:
		return o.Instagram
	default:
		return strings.TrimSpace(o.LinkedIn + "\n\n" + o.X)
	}
}

// Set stores text for a single platform.
func (o *ShapedOutput) Set(p Platform, text string) {
	switch p {
	case PlatformX:
		o.X = text
	case PlatformLinkedIn:
		o.LinkedIn = text
	case PlatformInstagram:
		o.Instagram = text
	}
}

// StrategicOutput is the structured part of a strategic-mode response.
type StrategicOutput struct {
	Mode    Mode           `json:"mode"`
	Plan    StrategicPlan  `json:"plan"`
	Series  []SeriesItem   `json:"series"`
	Replies []ReplyItem    `json:"replies"`
	Trend   TrendAdvice    `json:"trend"`
	Notes   StrategicNotes `json:"notes"`
}

// StrategicPlan summarizes the intent behind the content.
type StrategicPlan struct {
	Goal            string `json:"goal"`
	GoalHorizon     string `json:"goalHorizon"`
	GoalHorizonText string `json:"goalHorizonText"`
	Audience        string `json:"audience"`
	Tone            string `json:"tone"`
	ValueAngle      string `json:"valueAngle"`
	CTA             string `json:"cta"`
}

// SeriesItem is one day of a content series.
type SeriesItem struct {
	Day      int    `json:"day"`
	Title    string `json:"title"`
	X        string `json:"x"`
	LinkedIn string `json:"linkedin"`
}

// ReplyItem is a suggested reply for a comment scenario.
type ReplyItem struct {
	Scenario string `json:"scenario"`
	Reply    string `json:"reply"`
}

// TrendAdvice records whether to join a trend.
type TrendAdvice struct {
	Suggested      string `json:"suggested"`
	Recommendation string `json:"recommendation"`
	Why            string `json:"why"`
}

// StrategicNotes holds the model's self-assessment.
type StrategicNotes struct {
	StyleMatched string `json:"styleMatched"`
	HowToImprove string `json:"howToImprove"`
}
