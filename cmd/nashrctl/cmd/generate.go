package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"nashr/internal/config"
	"nashr/internal/domain/entity"
	"nashr/internal/infra/completion"
	"nashr/internal/infra/fetcher"
	"nashr/internal/infra/trends"
	"nashr/internal/usecase/generate"
)

func newGenerateCmd() *cobra.Command {
	var (
		flags      requestFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate posts for a topic",
		Long: `Generate calls the configured completion provider and prints the shaped posts.

Set COMPLETION_PROVIDER=echo to try it without an API key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args)
			if err != nil {
				return err
			}

			svc, err := newService()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out, err := svc.Generate(ctx, req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			writePosts(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full result as JSON")
	return cmd
}

// newService builds a generation service from the environment.
func newService() (*generate.Service, error) {
	cfg, err := config.LoadCompletionConfig()
	if err != nil {
		return nil, err
	}
	brand, err := loadBrand()
	if err != nil {
		return nil, err
	}
	client, err := completion.New(cfg, nil, nil)
	if err != nil {
		return nil, err
	}

	svc := &generate.Service{Completer: client, Brand: brand}
	if tc := trends.LoadConfig(); tc.Enabled() {
		svc.Trends = trends.NewFeedSource(nil, tc)
	}
	fc, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if fc.Enabled {
		svc.Sources = fetcher.NewReadabilityFetcher(fc)
	}
	return svc, nil
}

func loadBrand() (generate.Brand, error) {
	b, err := config.LoadBrand()
	if err != nil {
		return generate.Brand{}, err
	}
	return generate.Brand{Name: b.Name(), Marker: b.Marker(), TrendRule: b.RecommendationRule()}, nil
}

func writePosts(w io.Writer, out entity.ShapedOutput) {
	if out.Label != "" {
		_, _ = fmt.Fprintf(w, "# %s\n\n", out.Label)
	}
	for _, p := range []struct{ name, text string }{
		{"LinkedIn", out.LinkedIn},
		{"X", out.X},
		{"Instagram", out.Instagram},
	} {
		if strings.TrimSpace(p.text) == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "## %s\n%s\n\n", p.name, p.text)
	}
	if out.Strategic != nil {
		_, _ = fmt.Fprintln(w, "## Strategy")
		_ = writeJSON(w, out.Strategic)
		_, _ = fmt.Fprintln(w)
	}
	for _, warn := range out.Warnings {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
