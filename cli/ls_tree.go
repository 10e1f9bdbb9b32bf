package cli

import (
	"fmt"

	"github.com/forge-vcs/forge/internal/colors"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/forge-vcs/forge/internal/repository"
	"github.com/forge-vcs/forge/internal/tree"
	"github.com/spf13/cobra"
)

var lsTreeRecursive bool

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree TREE",
	Short: "List a tree object's entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runLsTree,
}

func init() {
	lsTreeCmd.Flags().BoolVarP(&lsTreeRecursive, "recursive", "r", false, "recurse into subdirectories")
}

func runLsTree(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	hash, err := refs.Find(repo, args[0], objects.KindTree, true)
	if err != nil {
		return err
	}

	return walkLsTree(repo, hash, "")
}

func walkLsTree(repo *repository.Repository, hash, prefix string) error {
	obj, err := objstore.ReadObject(repo, hash, objstore.KindTree)
	if err != nil {
		return err
	}

	for _, e := range obj.Tree {
		displayPath := prefix + e.Path
		if e.Mode == tree.ModeDirectory && lsTreeRecursive {
			if err := walkLsTree(repo, e.Hash, displayPath+"/"); err != nil {
				return err
			}
			continue
		}

		kind := "blob"
		switch e.Mode {
		case tree.ModeDirectory:
			kind = "tree"
		case tree.ModeGitlink:
			kind = "commit"
		}
		fmt.Printf("%s %s %s\t%s\n", tree.DisplayMode(e.Mode), colors.Kind(kind, kind), colors.Hash(e.Hash), displayPath)
	}
	return nil
}
