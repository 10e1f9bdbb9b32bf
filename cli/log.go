package cli

import (
	"fmt"

	"github.com/forge-vcs/forge/internal/colors"
	"github.com/forge-vcs/forge/internal/message"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log COMMIT",
	Short: "Walk commit parents and print each one's identity and message",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	hash, err := refs.Find(repo, args[0], objects.KindCommit, true)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	for hash != "" && !seen[hash] {
		seen[hash] = true

		obj, err := objstore.ReadObject(repo, hash, objstore.KindCommit)
		if err != nil {
			return err
		}
		printCommit(hash, obj.Commit)

		parent, ok := obj.Commit.Get("parent")
		if !ok {
			break
		}
		hash = parent
	}
	return nil
}

func printCommit(hash string, msg *message.Message) {
	fmt.Printf("commit %s\n", colors.Hash(hash))
	if author, ok := msg.Get("author"); ok {
		if id, err := message.ParseIdentity(author); err == nil {
			fmt.Printf("Author: %s <%s>\n", id.Name, id.Email)
		}
	}
	fmt.Println()
	fmt.Println(indent(string(msg.Text)))
	fmt.Println()
}

func indent(text string) string {
	out := "    "
	for _, r := range text {
		out += string(r)
		if r == '\n' {
			out += "    "
		}
	}
	return out
}
