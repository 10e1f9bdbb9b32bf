package cli

import (
	"fmt"

	"github.com/forge-vcs/forge/internal/colors"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/spf13/cobra"
)

var (
	showRefHeads bool
	showRefTags  bool
)

var showRefCmd = &cobra.Command{
	Use:   "show-ref",
	Short: "List references and the hashes they resolve to",
	RunE:  runShowRef,
}

func init() {
	showRefCmd.Flags().BoolVar(&showRefHeads, "heads", false, "limit to refs/heads")
	showRefCmd.Flags().BoolVar(&showRefTags, "tags", false, "limit to refs/tags")
}

func runShowRef(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	dirs := []string{"refs/heads", "refs/tags"}
	switch {
	case showRefHeads && !showRefTags:
		dirs = []string{"refs/heads"}
	case showRefTags && !showRefHeads:
		dirs = []string{"refs/tags"}
	}

	for _, dir := range dirs {
		root, err := refs.ListRefs(repo, dir)
		if err != nil {
			return err
		}
		printRefNode(root, dir)
	}
	return nil
}

func printRefNode(node *refs.Node, path string) {
	if node.IsLeaf {
		fmt.Printf("%s %s\n", colors.Hash(node.Hash), path)
		return
	}
	for _, child := range node.Children {
		printRefNode(child, path+"/"+child.Name)
	}
}
