package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nashr/internal/usecase/generate"
)

type promptView struct {
	System string `json:"system"`
	User   string `json:"user"`
	JSON   bool   `json:"json"`
}

func newPromptCmd() *cobra.Command {
	var (
		flags      requestFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "prompt <topic>",
		Short: "Print the prompts a generation would send",
		Long: `Prompt builds the system and user prompts for a topic without calling a provider.
Source fetching and trend feeds are skipped; pass --trend to preview trend context.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args)
			if err != nil {
				return err
			}
			brand, err := loadBrand()
			if err != nil {
				return err
			}

			svc := &generate.Service{Brand: brand}
			prompts := svc.Prompts(req)

			if jsonOutput {
				views := make([]promptView, len(prompts))
				for i, p := range prompts {
					views[i] = promptView{System: p.System, User: p.User, JSON: p.JSON}
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}

			w := cmd.OutOrStdout()
			for i, p := range prompts {
				if i > 0 {
					_, _ = fmt.Fprintln(w, "----")
				}
				_, _ = fmt.Fprintf(w, "### system\n%s\n\n### user\n%s\n\n", p.System, p.User)
			}
			return nil
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the prompts as JSON")
	return cmd
}
