package checkout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-vcs/forge/internal/checkout"
	"github.com/forge-vcs/forge/internal/forgeerr"
	"github.com/forge-vcs/forge/internal/message"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/repository"
	"github.com/forge-vcs/forge/internal/tree"
)

func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	repo, err := repository.Init(t.TempDir())
	require.NoError(t, err)
	return repo
}

func storeBlob(t *testing.T, repo *repository.Repository, content string) string {
	t.Helper()
	hash, err := objects.Store(repo, objects.Frame(objects.KindBlob, []byte(content)))
	require.NoError(t, err)
	return hash
}

func storeTreeObj(t *testing.T, repo *repository.Repository, entries []tree.Entry) string {
	t.Helper()
	body, err := tree.Emit(entries)
	require.NoError(t, err)
	hash, err := objects.Store(repo, objects.Frame(objects.KindTree, body))
	require.NoError(t, err)
	return hash
}

func storeCommitObj(t *testing.T, repo *repository.Repository, treeHash string) string {
	t.Helper()
	msg := &message.Message{
		Headers: []message.Header{
			{Key: "tree", Value: treeHash},
			{Key: "author", Value: "A U Thor <author@example.com> 1527025023 +0200"},
			{Key: "committer", Value: "A U Thor <author@example.com> 1527025044 +0200"},
		},
		Text: []byte("message\n"),
	}
	hash, err := objects.Store(repo, objects.Frame(objects.KindCommit, message.Emit(msg)))
	require.NoError(t, err)
	return hash
}

func TestCheckoutWritesNestedFiles(t *testing.T) {
	repo := newTestRepo(t)

	fileHash := storeBlob(t, repo, "hello world\n")
	subTreeHash := storeTreeObj(t, repo, []tree.Entry{
		{Mode: tree.ModeRegular, Path: "nested.txt", Hash: fileHash},
	})
	rootTreeHash := storeTreeObj(t, repo, []tree.Entry{
		{Mode: tree.ModeRegular, Path: "top.txt", Hash: fileHash},
		{Mode: tree.ModeDirectory, Path: "sub", Hash: subTreeHash},
	})
	commitHash := storeCommitObj(t, repo, rootTreeHash)

	dest := filepath.Join(t.TempDir(), "out")
	skipped, err := checkout.Checkout(repo, commitHash, dest)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	top, err := os.ReadFile(filepath.Join(dest, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(top))

	nested, err := os.ReadFile(filepath.Join(dest, "sub", "nested.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(nested))
}

func TestCheckoutRefusesNonEmptyDestination(t *testing.T) {
	repo := newTestRepo(t)
	fileHash := storeBlob(t, repo, "x")
	treeHash := storeTreeObj(t, repo, []tree.Entry{{Mode: tree.ModeRegular, Path: "a.txt", Hash: fileHash}})
	commitHash := storeCommitObj(t, repo, treeHash)

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "preexisting"), []byte("x"), 0644))

	_, err := checkout.Checkout(repo, commitHash, dest)
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.NotEmpty))
}

func TestCheckoutRefusesFileDestination(t *testing.T) {
	repo := newTestRepo(t)
	fileHash := storeBlob(t, repo, "x")
	treeHash := storeTreeObj(t, repo, []tree.Entry{{Mode: tree.ModeRegular, Path: "a.txt", Hash: fileHash}})
	commitHash := storeCommitObj(t, repo, treeHash)

	dest := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0644))

	_, err := checkout.Checkout(repo, commitHash, dest)
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.NotDirectory))
}

func TestCheckoutWritesSymlink(t *testing.T) {
	repo := newTestRepo(t)
	linkTarget := storeBlob(t, repo, "top.txt")
	fileHash := storeBlob(t, repo, "content")
	treeHash := storeTreeObj(t, repo, []tree.Entry{
		{Mode: tree.ModeRegular, Path: "top.txt", Hash: fileHash},
		{Mode: tree.ModeSymlink, Path: "link", Hash: linkTarget},
	})
	commitHash := storeCommitObj(t, repo, treeHash)

	dest := filepath.Join(t.TempDir(), "out")
	_, err := checkout.Checkout(repo, commitHash, dest)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(dest, "link"))
	require.NoError(t, err)
	assert.Equal(t, "top.txt", target)
}

func TestCheckoutSkipsGitlinkAndReportsPath(t *testing.T) {
	repo := newTestRepo(t)
	fileHash := storeBlob(t, repo, "content")
	treeHash := storeTreeObj(t, repo, []tree.Entry{
		{Mode: tree.ModeRegular, Path: "top.txt", Hash: fileHash},
		{Mode: tree.ModeGitlink, Path: "vendor/lib", Hash: "0123456789abcdef0123456789abcdef01234567"},
	})
	commitHash := storeCommitObj(t, repo, treeHash)

	dest := filepath.Join(t.TempDir(), "out")
	skipped, err := checkout.Checkout(repo, commitHash, dest)
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, filepath.Join(dest, "vendor/lib"), skipped[0])

	_, err = os.Stat(filepath.Join(dest, "vendor/lib"))
	assert.True(t, os.IsNotExist(err))
}
