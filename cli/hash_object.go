package cli

import (
	"fmt"

	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/spf13/cobra"
)

var (
	hashObjectType  string
	hashObjectWrite bool
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object FILE",
	Short: "Compute the object hash for a file, optionally storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashObject,
}

func init() {
	hashObjectCmd.Flags().StringVarP(&hashObjectType, "type", "t", "blob", "object type (blob, tree, commit, tag)")
	hashObjectCmd.Flags().BoolVarP(&hashObjectWrite, "write", "w", false, "store the object as well as printing its hash")
}

func runHashObject(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	kind := objects.Kind(hashObjectType)
	if !kind.Valid() {
		return fmt.Errorf("hash-object: unknown type %q", hashObjectType)
	}

	hash, err := objstore.HashFile(repo, args[0], kind, hashObjectWrite)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
