package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitlab/planetforge/internal/derive"
	"github.com/orbitlab/planetforge/internal/params"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testSession(t *testing.T, id string, at time.Time) Session {
	t.Helper()
	doc := params.Defaults().Parameters
	result, err := derive.NewWithClock(func() time.Time { return at }).Derive(doc)
	require.NoError(t, err)
	return Session{
		ID:         id,
		Parameters: doc,
		Result:     result,
		CreatedAt:  at,
	}
}

func TestSQLite_SaveAndGetSession(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sess := testSession(t, "ab12cd34", at)
	require.NoError(t, st.SaveSession(ctx, sess))

	got, err := st.GetSession(ctx, "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Parameters, got.Parameters)
	require.NotNil(t, got.Result)
	assert.Equal(t, sess.Result.Geology, got.Result.Geology)
	assert.Equal(t, sess.Result.Timestamp, got.Result.Timestamp)
}

func TestSQLite_GetSession_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetSession(context.Background(), "deadbeef")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SaveSession_NilResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	sess := Session{
		ID:         "00aa11bb",
		Parameters: params.Defaults().Parameters,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, st.SaveSession(ctx, sess))

	got, err := st.GetSession(ctx, "00aa11bb")
	require.NoError(t, err)
	assert.Nil(t, got.Result)
}

func TestSQLite_SaveSession_DuplicateID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	sess := testSession(t, "dup00000", time.Now().UTC())
	require.NoError(t, st.SaveSession(ctx, sess))
	require.Error(t, st.SaveSession(ctx, sess))
}

func TestSQLite_ListSessions_NewestFirstWithLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaaa0001", "aaaa0002", "aaaa0003"} {
		require.NoError(t, st.SaveSession(ctx, testSession(t, id, base.Add(time.Duration(i)*time.Hour))))
	}

	sessions, err := st.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "aaaa0003", sessions[0].ID)
	assert.Equal(t, "aaaa0002", sessions[1].ID)
}

func TestSQLite_ListSessions_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	sessions, err := st.ListSessions(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
