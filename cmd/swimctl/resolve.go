package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/swim-school-site/internal/service"
)

func newResolveCmd() *cobra.Command {
	var hint string
	cmd := &cobra.Command{
		Use:   "resolve <label>",
		Short: "Show which course a free-text label resolves to",
		Example: `  swimctl resolve "Onsdag 17:30 - Nivå 2"
  swimctl resolve "Svømmeskole" --hint baby`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog("", "")
			if err != nil {
				return err
			}
			res := service.NewResolverService(catalog, nil, nil).Resolve(args[0], hint)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "course: %s (%s)\n", res.Course.ID, res.Course.Title)
			fmt.Fprintf(out, "tier:   %s\n", res.Tier)
			fmt.Fprintf(out, "level:  %s\n", res.Level)
			fmt.Fprintf(out, "age:    %s\n", res.AgeText)
			if res.Day != "" || res.Time != "" {
				fmt.Fprintf(out, "slot:   %s %s\n", res.Day, res.Time)
			}
			if res.Session != nil {
				fmt.Fprintf(out, "spots:  %s\n", service.FormatSpots(res.Session.Spots))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "course id or title fragment tried before the label")
	return cmd
}
