package cli

import (
	"fmt"
	"os"

	"github.com/forge-vcs/forge/internal/colors"
	"github.com/forge-vcs/forge/internal/message"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/forge-vcs/forge/internal/tree"
	"github.com/spf13/cobra"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file TYPE OBJECT",
	Short: "Print the contents of a repository object",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatFile,
}

func runCatFile(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	kind := objects.Kind(args[0])
	if !kind.Valid() {
		return fmt.Errorf("cat-file: unknown type %q", args[0])
	}

	hash, err := refs.ResolveName(repo, args[1])
	if err != nil {
		return err
	}

	obj, err := objstore.ReadObject(repo, hash, kind)
	if err != nil {
		return err
	}

	switch kind {
	case objstore.KindBlob:
		os.Stdout.Write(obj.Blob)
	case objstore.KindTree:
		printTree(obj.Tree)
	case objstore.KindCommit:
		printMessage(obj.Commit)
	case objstore.KindTag:
		printMessage(obj.Tag)
	}
	return nil
}

func printTree(entries []tree.Entry) {
	for _, e := range entries {
		kind := "blob"
		if e.Mode == tree.ModeDirectory {
			kind = "tree"
		} else if e.Mode == tree.ModeGitlink {
			kind = "commit"
		}
		fmt.Printf("%s %s %s\t%s\n", tree.DisplayMode(e.Mode), colors.Kind(kind, kind), colors.Hash(e.Hash), e.Path)
	}
}

func printMessage(msg *message.Message) {
	for _, h := range msg.Headers {
		fmt.Printf("%s %s\n", h.Key, h.Value)
	}
	fmt.Println()
	os.Stdout.Write(msg.Text)
}
