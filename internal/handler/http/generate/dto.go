package generate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"nashr/internal/domain/entity"
)

// FlexInt accepts a JSON number or a numeric string. Anything else decodes to zero.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		*n = FlexInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	*n = 0
	return nil
}

// Request is the body of POST /api/run and POST /api/generate.
// Text and Idea are synonyms for the topic; Lang is a synonym for Language.
type Request struct {
	Text         string              `json:"text" validate:"max=8000"`
	Idea         string              `json:"idea" validate:"max=8000"`
	Platform     string              `json:"platform" validate:"max=64"`
	Tone         string              `json:"tone" validate:"max=200"`
	Audience     string              `json:"audience" validate:"max=200"`
	Language     string              `json:"language" validate:"max=16"`
	Lang         string              `json:"lang" validate:"max=16"`
	Format       string              `json:"format" validate:"omitempty,oneof=text json"`
	Strategic    bool                `json:"strategic"`
	Mode         string              `json:"mode" validate:"max=32"`
	Goal         string              `json:"goal" validate:"max=2000"`
	GoalHorizon  string              `json:"goalHorizon" validate:"max=16"`
	SeriesCount  FlexInt             `json:"seriesCount"`
	StyleProfile entity.StyleProfile `json:"styleProfile"`
	TrendContext entity.TrendContext `json:"trendContext"`
	SourceURL    string              `json:"source_url" validate:"omitempty,url,max=2048"`
}

// Topic returns Text, falling back to Idea.
func (r Request) Topic() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	return r.Idea
}

// Raw maps the body onto the domain input.
func (r Request) Raw() entity.RawGenerationInput {
	lang := r.Language
	if strings.TrimSpace(lang) == "" {
		lang = r.Lang
	}
	return entity.RawGenerationInput{
		Topic:       r.Topic(),
		Platform:    r.Platform,
		Tone:        r.Tone,
		Audience:    r.Audience,
		Language:    lang,
		Strategic:   r.Strategic,
		Mode:        r.Mode,
		Goal:        r.Goal,
		GoalHorizon: r.GoalHorizon,
		SeriesCount: int(r.SeriesCount),
		Style:       r.StyleProfile,
		Trends:      r.TrendContext,
		SourceURL:   r.SourceURL,
	}
}

// WantsText reports whether the caller asked for a bare string output.
func (r Request) WantsText() bool {
	return r.Format == "text"
}

// Response is the success envelope. Output is a string or an OutputDTO.
type Response struct {
	OK     bool `json:"ok"`
	Output any  `json:"output"`
}

// OutputDTO is the structured generation result.
type OutputDTO struct {
	LinkedIn  string                  `json:"linkedin"`
	X         string                  `json:"x"`
	Instagram string                  `json:"instagram,omitempty"`
	Language  string                  `json:"language"`
	Platform  string                  `json:"platform"`
	Label     string                  `json:"label"`
	Plan      *entity.StrategicOutput `json:"plan,omitempty"`
	Warnings  []string                `json:"warnings,omitempty"`
}

func toOutputDTO(o entity.ShapedOutput) OutputDTO {
	return OutputDTO{
		LinkedIn:  o.LinkedIn,
		X:         o.X,
		Instagram: o.Instagram,
		Language:  string(o.Language),
		Platform:  string(o.Platform),
		Label:     o.Label,
		Plan:      o.Strategic,
		Warnings:  o.Warnings,
	}
}
