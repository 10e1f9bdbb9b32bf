package refs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-vcs/forge/internal/forgeerr"
	"github.com/forge-vcs/forge/internal/message"
	"github.com/forge-vcs/forge/internal/objects"
	"github.com/forge-vcs/forge/internal/refs"
	"github.com/forge-vcs/forge/internal/repository"
)

func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	repo, err := repository.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = refs.CloseIndex(repo) })
	return repo
}

func storeBlob(t *testing.T, repo *repository.Repository, content string) string {
	t.Helper()
	framed := objects.Frame(objects.KindBlob, []byte(content))
	hash, err := objects.Store(repo, framed)
	require.NoError(t, err)
	return hash
}

func storeEmptyTree(t *testing.T, repo *repository.Repository) string {
	t.Helper()
	framed := objects.Frame(objects.KindTree, []byte{})
	hash, err := objects.Store(repo, framed)
	require.NoError(t, err)
	return hash
}

func storeCommit(t *testing.T, repo *repository.Repository, treeHash string) string {
	t.Helper()
	msg := &message.Message{
		Headers: []message.Header{
			{Key: "tree", Value: treeHash},
			{Key: "author", Value: "A U Thor <author@example.com> 1527025023 +0200"},
			{Key: "committer", Value: "A U Thor <author@example.com> 1527025044 +0200"},
		},
		Text: []byte("initial commit\n"),
	}
	framed := objects.Frame(objects.KindCommit, message.Emit(msg))
	hash, err := objects.Store(repo, framed)
	require.NoError(t, err)
	return hash
}

func storeTag(t *testing.T, repo *repository.Repository, targetHash, targetType string) string {
	t.Helper()
	msg := &message.Message{
		Headers: []message.Header{
			{Key: "object", Value: targetHash},
			{Key: "type", Value: targetType},
			{Key: "tag", Value: "v1.0"},
			{Key: "tagger", Value: "A U Thor <author@example.com> 1527025023 +0200"},
		},
		Text: []byte("release\n"),
	}
	framed := objects.Frame(objects.KindTag, message.Emit(msg))
	hash, err := objects.Store(repo, framed)
	require.NoError(t, err)
	return hash
}

func TestResolveHEADThroughSymbolicChain(t *testing.T) {
	repo := newTestRepo(t)
	const hash = "0beec7b5ea3f0fdbc95d0dd47f3c5bc275da8a33"

	require.NoError(t, os.WriteFile(repo.Path("refs", "heads", "master"), []byte(hash+"\n"), 0644))
	require.NoError(t, os.WriteFile(repo.Path("HEAD"), []byte("ref: refs/heads/master\n"), 0644))

	got, err := refs.ResolveRef(repo, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	got, err = refs.ResolveName(repo, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, hash, got)
}

func TestResolveNameFullHash(t *testing.T) {
	repo := newTestRepo(t)
	hash := storeBlob(t, repo, "content for full hash test")

	got, err := refs.ResolveName(repo, hash)
	require.NoError(t, err)
	assert.Equal(t, hash, got)
}

func TestResolveNameUnambiguousPrefix(t *testing.T) {
	repo := newTestRepo(t)
	hash := storeBlob(t, repo, "content for prefix test")

	got, err := refs.ResolveName(repo, hash[:4])
	require.NoError(t, err)
	assert.Equal(t, hash, got)
}

func TestResolveNameShortPrefixRejected(t *testing.T) {
	repo := newTestRepo(t)
	hash := storeBlob(t, repo, "content")

	_, err := refs.ResolveName(repo, hash[:3])
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.NotFound))
}

func TestResolveNameAmbiguousPrefix(t *testing.T) {
	repo := newTestRepo(t)

	h1 := "96e86353078f58a63e9d0dbd5beadc23e76a918f"
	h2 := "96e86b5662a3620b3ac4751251eec239d71dd120"
	writeFakeObject(t, repo, h1)
	writeFakeObject(t, repo, h2)

	_, err := refs.ResolveName(repo, "96e86")
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.Ambiguous))

	var fe *forgeerr.Error
	require.ErrorAs(t, err, &fe)
	assert.ElementsMatch(t, []string{h1, h2}, fe.Candidates)
}

// writeFakeObject creates an empty placeholder object file at the
// fan-out path for hash without going through the object codec; it
// exists only to exercise the prefix directory scan.
func writeFakeObject(t *testing.T, repo *repository.Repository, hash string) {
	t.Helper()
	path := objects.FanOutPath(repo, hash)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))
}

func TestCreateRefRefusesOverwriteWithoutForce(t *testing.T) {
	repo := newTestRepo(t)
	hash := storeBlob(t, repo, "x")

	require.NoError(t, refs.CreateRef(repo, "refs/heads/feature", refs.Target{Direct: hash}, false))
	err := refs.CreateRef(repo, "refs/heads/feature", refs.Target{Direct: hash}, false)
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.AlreadyExists))

	require.NoError(t, refs.CreateRef(repo, "refs/heads/feature", refs.Target{Direct: hash}, true))
}

func TestDeleteRefReturnsResolvedHash(t *testing.T) {
	repo := newTestRepo(t)
	hash := storeBlob(t, repo, "y")
	require.NoError(t, refs.CreateRef(repo, "refs/heads/feature", refs.Target{Direct: hash}, false))

	got, err := refs.DeleteRef(repo, "refs/heads/feature")
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	_, err = refs.DeleteRef(repo, "refs/heads/feature")
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.Missing))
}

func TestFindTypeFollowsTagToCommit(t *testing.T) {
	repo := newTestRepo(t)

	treeHash := storeEmptyTree(t, repo)
	commitHash := storeCommit(t, repo, treeHash)
	tagHash := storeTag(t, repo, commitHash, "commit")

	got, err := refs.Find(repo, tagHash, objects.KindCommit, true)
	require.NoError(t, err)
	assert.Equal(t, commitHash, got)

	_, err = refs.Find(repo, tagHash, objects.KindCommit, false)
	require.Error(t, err)
	assert.True(t, forgeerr.Is(err, forgeerr.NotFound))
}
