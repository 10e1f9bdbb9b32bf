// Package cli wires the forge command-line front end: one cobra
// command per verb, each a thin adapter over the internal/* packages.
package cli

import (
	"fmt"
	"os"

	"github.com/forge-vcs/forge/internal/colors"
	"github.com/spf13/cobra"
)

const forgeVersion = "0.1.0"

var version bool

var rootCmd = &cobra.Command{
	Use:           "forge",
	Short:         "forge is a minimal content-addressed version control core",
	Long:          `forge stores and resolves objects, trees, commits, tags, and references the way a small git reimplementation would.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if version {
			fmt.Printf("forge version %s\n", forgeVersion)
			return
		}
		cmd.Help()
	},
}

// Execute runs the root command, exiting non-zero on error per the
// propagation policy: every error reaches the CLI and is printed as a
// short diagnostic on stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colors.Error("forge: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&version, "version", false, "print the forge version")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(hashObjectCmd)
	rootCmd.AddCommand(catFileCmd)
	rootCmd.AddCommand(lsTreeCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showRefCmd)
	rootCmd.AddCommand(revParseCmd)
	rootCmd.AddCommand(tagCmd)
}
