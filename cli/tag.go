package cli

import (
	"fmt"
	"time"

	"github.com/forge-vcs/forge/internal/message"
	"github.com/forge-vcs/forge/internal/objstore"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/forge-vcs/forge/internal/repository"
	"github.com/spf13/cobra"
)

var (
	tagAnnotate bool
	tagMessage  string
	tagDelete   bool
)

var tagCmd = &cobra.Command{
	Use:   "tag [NAME [OBJECT]]",
	Short: "List, create, or delete tags",
	Args:  cobra.RangeArgs(0, 2),
	RunE:  runTag,
}

func init() {
	tagCmd.Flags().BoolVarP(&tagAnnotate, "annotate", "a", false, "create an annotated tag object")
	tagCmd.Flags().StringVarP(&tagMessage, "message", "m", "", "annotated tag message")
	tagCmd.Flags().BoolVarP(&tagDelete, "delete", "d", false, "delete a tag")
}

func runTag(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	if tagDelete {
		if len(args) != 1 {
			return fmt.Errorf("tag -d requires exactly one name")
		}
		hash, err := refs.DeleteRef(repo, "refs/tags/"+args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted tag %s (was %s)\n", args[0], hash)
		return nil
	}

	if len(args) == 0 {
		root, err := refs.ListRefs(repo, "refs/tags")
		if err != nil {
			return err
		}
		printRefNode(root, "refs/tags")
		return nil
	}

	name := args[0]
	targetName := "HEAD"
	if len(args) == 2 {
		targetName = args[1]
	}
	targetHash, err := refs.ResolveName(repo, targetName)
	if err != nil {
		return err
	}

	if tagAnnotate {
		return createAnnotatedTag(repo, name, targetHash)
	}
	return refs.CreateRef(repo, "refs/tags/"+name, refs.Target{Direct: targetHash}, false)
}

// createAnnotatedTag emits a real tag object (object/type/tag/tagger
// headers plus the free-form message) and points refs/tags/name at it.
// The body is the same message-codec wire format used for commits,
// with no additional fields.
func createAnnotatedTag(repo *repository.Repository, name, targetHash string) error {
	if tagMessage == "" {
		return fmt.Errorf("tag -a requires -m MESSAGE")
	}

	obj, err := objstore.ReadObject(repo, targetHash, "")
	if err != nil {
		return err
	}

	cfg := repo.Config()
	now := time.Now()
	tagger := message.EmitIdentity(&message.Identity{
		Name:    cfg.UserName,
		Email:   cfg.UserEmail,
		Seconds: now.Unix(),
		TZ:      now.Format("-0700"),
	})

	msg := &message.Message{
		Headers: []message.Header{
			{Key: "object", Value: targetHash},
			{Key: "type", Value: string(obj.Kind)},
			{Key: "tag", Value: name},
			{Key: "tagger", Value: tagger},
		},
		Text: []byte(tagMessage + "\n"),
	}

	hash, err := objstore.WriteObject(repo, &objstore.Object{Kind: objstore.KindTag, Tag: msg}, true)
	if err != nil {
		return err
	}
	return refs.CreateRef(repo, "refs/tags/"+name, refs.Target{Direct: hash}, false)
}
