package cli

import (
	"fmt"
	"os"

	"github.com/forge-vcs/forge/internal/repository"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an empty repository",
	Long:  "Bootstraps a fresh metadata directory: objects/, refs/{heads,tags}, HEAD, description, and a default config.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	workDir := "."
	if len(args) == 1 {
		workDir = args[0]
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}

	repo, err := repository.Init(workDir)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Printf("Initialized empty repository in %s\n", repo.MetaDir())
	return nil
}
