package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nashr/internal/infra/usagestore"
	"nashr/pkg/config"
	"nashr/pkg/quota"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Inspect and maintain daily usage counters",
		Long: `Usage reads the store selected by USAGE_STORE. The memory store lives inside
the API process, so only the redis and postgres backends are useful here.`,
	}
	cmd.AddCommand(newUsageShowCmd(), newUsagePurgeCmd())
	return cmd
}

func newUsageShowCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "show <identity>",
		Short: "Show the generation count of a client for a UTC day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now().UTC()
			if day != "" {
				parsed, err := time.Parse(time.DateOnly, day)
				if err != nil {
					return fmt.Errorf("invalid --day %q, want YYYY-MM-DD", day)
				}
				t = parsed
			}

			return withUsageBackend(cmd.Context(), func(ctx context.Context, cfg *config.UsageConfig, b *usagestore.Backend) error {
				count, err := b.Store.Get(ctx, quota.DailyKey(args[0], t))
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "identity: %s\n", args[0])
				_, _ = fmt.Fprintf(w, "day:      %s\n", t.Format(time.DateOnly))
				_, _ = fmt.Fprintf(w, "store:    %s\n", b.Name)
				if cfg.Enabled() {
					_, _ = fmt.Fprintf(w, "used:     %d/%d\n", count, cfg.DailyLimit)
				} else {
					_, _ = fmt.Fprintf(w, "used:     %d (gate disabled)\n", count)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "UTC day as YYYY-MM-DD (default today)")
	return cmd
}

func newUsagePurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete counters of past days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsageBackend(cmd.Context(), func(ctx context.Context, _ *config.UsageConfig, b *usagestore.Backend) error {
				if b.Purger == nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s expires counters on its own, nothing to purge\n", b.Name)
					return nil
				}
				removed, err := b.PurgeNow(ctx, time.Now())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d counters from %s\n", removed, b.Name)
				return nil
			})
		},
	}
}

func withUsageBackend(ctx context.Context, fn func(context.Context, *config.UsageConfig, *usagestore.Backend) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadUsageConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	b, err := usagestore.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()
	return fn(ctx, cfg, b)
}
