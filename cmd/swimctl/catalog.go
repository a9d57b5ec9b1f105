package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/swim-school-site/internal/repository"
	"github.com/noah-isme/swim-school-site/internal/service"
)

type catalogOptions struct {
	contentPath  string
	schedulePath string
	strict       bool
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect course catalog content",
	}

	opts := &catalogOptions{}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and check that every bookable session resolves to a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogValidate(cmd, opts)
		},
	}
	validate.Flags().StringVar(&opts.contentPath, "content", "", "content YAML file (default: embedded)")
	validate.Flags().StringVar(&opts.schedulePath, "schedule", "", "schedule CSV file (default: embedded)")
	validate.Flags().BoolVar(&opts.strict, "strict", false, "fail when a session falls back to the default course")
	cmd.AddCommand(validate)
	return cmd
}

func loadCatalog(contentPath, schedulePath string) (*repository.CatalogRepository, error) {
	if contentPath == "" && schedulePath == "" {
		return repository.NewCatalogRepository()
	}
	if contentPath == "" || schedulePath == "" {
		return nil, fmt.Errorf("--content and --schedule must be given together")
	}
	content, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	schedule, err := os.ReadFile(schedulePath)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return repository.LoadCatalog(content, schedule)
}

func runCatalogValidate(cmd *cobra.Command, opts *catalogOptions) error {
	catalog, err := loadCatalog(opts.contentPath, opts.schedulePath)
	if err != nil {
		return err
	}
	resolver := service.NewResolverService(catalog, nil, nil)
	out := cmd.OutOrStdout()

	sessions, fallbacks, mismatches := 0, 0, 0
	for _, day := range catalog.Schedule() {
		for _, session := range day.Sessions {
			if session.IsHeader() {
				continue
			}
			sessions++
			label := service.ComposeLabel(day.Day, session)
			resolved := resolver.Resolve(label, "")
			switch {
			case resolved.Tier == service.TierDefault:
				fallbacks++
				fmt.Fprintf(out, "WARN  %s: falls back to %s\n", label, resolved.Course.ID)
			case session.CourseID != "" && session.CourseID != resolved.Course.ID:
				mismatches++
				fmt.Fprintf(out, "ERROR %s: resolves to %s, schedule says %s\n", label, resolved.Course.ID, session.CourseID)
			}
		}
	}

	fmt.Fprintf(out, "%d courses, %d sessions, %d articles, %d regions\n",
		len(catalog.Courses()), sessions, len(catalog.Articles()), len(catalog.Regions()))

	if mismatches > 0 {
		return fmt.Errorf("%d sessions resolve to the wrong course", mismatches)
	}
	if opts.strict && fallbacks > 0 {
		return fmt.Errorf("%d sessions fall back to the default course", fallbacks)
	}
	return nil
}
