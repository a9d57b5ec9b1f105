package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the operator command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swimctl",
		Short: "Operator tools for the swim school site",
		Long: `swimctl checks catalog content before a deploy, explains how a course
label resolves, and produces password hashes for the staff login.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newHashPasswordCmd())
	return root
}
