package cli

import (
	"fmt"

	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/spf13/cobra"
)

var revParseType string

var revParseCmd = &cobra.Command{
	Use:   "rev-parse NAME",
	Short: "Resolve a name to a full object hash, optionally type-following it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevParse,
}

func init() {
	revParseCmd.Flags().StringVarP(&revParseType, "type", "t", "", "follow to this object type (blob, tree, commit, tag)")
}

func runRevParse(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	kind := objects.Kind(revParseType)
	if revParseType != "" && !kind.Valid() {
		return fmt.Errorf("rev-parse: unknown type %q", revParseType)
	}

	hash, err := refs.Find(repo, args[0], kind, true)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
