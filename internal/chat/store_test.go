package chat

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongnecli/dongne/internal/session"
)

func TestNewSessionRoundTrip(t *testing.T) {
	store := NewStoreAt(t.TempDir(), 10, true)

	sess := store.NewSession()
	require.NoError(t, store.Append(sess, session.Message{Role: session.RoleUser, Text: "버스 어디쯤이야?"}))
	require.NoError(t, store.Append(sess, session.Message{Role: session.RoleBot, Text: "곧 도착해요"}))

	loaded, err := store.LoadSession(sess.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, session.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "곧 도착해요", loaded.Messages[1].Text)
}

func TestCurrentSessionSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	store := NewStoreAt(dir, 10, true)
	sess := store.NewSession()
	require.NoError(t, store.Append(sess, session.Message{Role: session.RoleUser, Text: "안녕"}))

	// A fresh store instance finds the same session via the pointer file.
	restarted := NewStoreAt(dir, 10, true)
	current, err := restarted.CurrentSession()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, sess.ID, current.ID)
}

func TestCurrentSessionAbsent(t *testing.T) {
	store := NewStoreAt(t.TempDir(), 10, true)
	current, err := store.CurrentSession()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSaveDisabled(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir, 10, false)

	sess := store.NewSession()
	require.NoError(t, store.Append(sess, session.Message{Role: session.RoleUser, Text: "저장 안 함"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir, 2, true)

	var ids []string
	for i := 0; i < 3; i++ {
		sess := store.NewSession()
		require.NoError(t, store.Append(sess, session.Message{Role: session.RoleUser, Text: "질문"}))
		ids = append(ids, sess.ID)
		// Distinct mtimes so prune ordering is deterministic.
		time.Sleep(10 * time.Millisecond)
	}

	sessions, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, ids[2], sessions[0].ID)
	assert.Equal(t, ids[1], sessions[1].ID)
}
