package cli

import (
	"fmt"
	"os"

	"github.com/forge-vcs/forge/internal/repository"
)

// openRepo discovers the enclosing metadata directory from the current
// working directory, the way every command except init needs a handle.
func openRepo() (*repository.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	repo, err := repository.Discover(cwd)
	if err != nil {
		return nil, fmt.Errorf("not a forge repository (or any parent up to /): %w", err)
	}
	return repo, nil
}
