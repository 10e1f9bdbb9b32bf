package cli

import (
	"fmt"
	"os"

	"github.com/forge-vcs/forge/internal/checkout"
	"github.com/forge-vcs/forge/internal/colors"
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout COMMIT [PATH]",
	Short: "Materialize a commit's tree onto the filesystem",
	Long:  "PATH defaults to the current directory and must not exist or must be an empty directory.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCheckout,
}

func runCheckout(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	dest := "."
	if len(args) == 2 {
		dest = args[1]
	}

	skipped, err := checkout.Checkout(repo, args[0], dest)
	if err != nil {
		return err
	}
	for _, path := range skipped {
		fmt.Fprintln(os.Stderr, colors.Warning("skipped gitlink (submodule) entry: "+path))
	}
	fmt.Printf("Checked out %s into %s\n", args[0], dest)
	return nil
}
