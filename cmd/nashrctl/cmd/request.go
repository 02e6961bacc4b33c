package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"nashr/internal/domain/entity"
)

// requestFlags are shared by generate and prompt.
type requestFlags struct {
	platform    string
	language    string
	tone        string
	audience    string
	strategic   bool
	mode        string
	goal        string
	horizon     string
	seriesCount int
	sourceURL   string
	voice       string
	trends      []string
}

func (f *requestFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.platform, "platform", "p", "both", "x, linkedin, instagram or both")
	fs.StringVarP(&f.language, "lang", "l", "ar", "output language: ar or en")
	fs.StringVar(&f.tone, "tone", "", "tone of voice")
	fs.StringVar(&f.audience, "audience", "", "target audience")
	fs.BoolVar(&f.strategic, "strategic", false, "use the strategic JSON prompt")
	fs.StringVar(&f.mode, "mode", "", "strategic mode: post, series, reply, campaign or ad")
	fs.StringVar(&f.goal, "goal", "", "strategic goal")
	fs.StringVar(&f.horizon, "horizon", "", "goal horizon: 2w, 1m, 45d or 2m")
	fs.IntVar(&f.seriesCount, "series", 0, "number of posts in a series (2-12)")
	fs.StringVar(&f.sourceURL, "source-url", "", "article to use as source material")
	fs.StringVar(&f.voice, "voice", "", "voice name for the strategic style profile")
	fs.StringSliceVar(&f.trends, "trend", nil, "trending subject (repeatable)")
}

func (f *requestFlags) request(args []string) (entity.GenerationRequest, error) {
	return entity.NewGenerationRequest(entity.RawGenerationInput{
		Topic:       strings.Join(args, " "),
		Platform:    f.platform,
		Tone:        f.tone,
		Audience:    f.audience,
		Language:    f.language,
		Strategic:   f.strategic,
		Mode:        f.mode,
		Goal:        f.goal,
		GoalHorizon: f.horizon,
		SeriesCount: f.seriesCount,
		Style:       entity.StyleProfile{VoiceName: f.voice},
		Trends:      entity.TrendContext{Trends: f.trends},
		SourceURL:   f.sourceURL,
	})
}
