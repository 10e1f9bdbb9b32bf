package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-vcs/forge/internal/message"
)

func TestParseEmitRoundTrip(t *testing.T) {
	raw := []byte("tree 29ff16c9c14e2652b22f8b78bb08a5a07930c147\n" +
		"parent 206941306e8a8af65b66eaaaea388a7ae24d49a0\n" +
		"author A U Thor <author@example.com> 1527025023 +0200\n" +
		"committer A U Thor <author@example.com> 1527025044 +0200\n" +
		"gpgsig -----BEGIN PGP SIGNATURE-----\n" +
		" \n" +
		" iQIzBAABCAAdFiEE\n" +
		" -----END PGP SIGNATURE-----\n" +
		"\n" +
		"Add attribute to model.\n")

	msg, err := message.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("Add attribute to model.\n"), msg.Text)

	tree, ok := msg.Get("tree")
	require.True(t, ok)
	assert.Equal(t, "29ff16c9c14e2652b22f8b78bb08a5a07930c147", tree)

	sig, ok := msg.Get("gpgsig")
	require.True(t, ok)
	assert.Contains(t, sig, "\n")

	assert.Equal(t, raw, message.Emit(msg))
}

func TestParseDuplicateKeysPreserveOrder(t *testing.T) {
	raw := []byte("parent aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\n" +
		"parent bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\n\nmerge commit\n")

	msg, err := message.Parse(raw)
	require.NoError(t, err)
	parents := msg.GetAll("parent")
	require.Len(t, parents, 2)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", parents[0])
	assert.Equal(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", parents[1])
	assert.Equal(t, raw, message.Emit(msg))
}

func TestValueContainingLiteralFoldSurvivesRoundTrip(t *testing.T) {
	msg := &message.Message{
		Headers: []message.Header{{Key: "gpgsig", Value: "line one\nline two\nline three"}},
		Text:    []byte("body\n"),
	}
	out := message.Emit(msg)
	reparsed, err := message.Parse(out)
	require.NoError(t, err)
	val, ok := reparsed.Get("gpgsig")
	require.True(t, ok)
	assert.Equal(t, msg.Headers[0].Value, val)
}

func TestParseIdentityRoundTrip(t *testing.T) {
	line := "A U Thor <author@example.com> 1527025023 +0200"
	id, err := message.ParseIdentity(line)
	require.NoError(t, err)
	assert.Equal(t, "A U Thor", id.Name)
	assert.Equal(t, "author@example.com", id.Email)
	assert.Equal(t, int64(1527025023), id.Seconds)
	assert.Equal(t, "+0200", id.TZ)
	assert.Equal(t, line, message.EmitIdentity(id))
}

func TestParseIdentityMalformed(t *testing.T) {
	_, err := message.ParseIdentity("no angle brackets here")
	require.Error(t, err)
}

func TestParseMissingBlankLine(t *testing.T) {
	_, err := message.Parse([]byte("tree abc123"))
	require.Error(t, err)
}
