package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/industry-atlas/internal/handoff"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ handoff.Store = (*SessionStore)(nil)

func TestSessionStore_PutTake(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	session, err := store.Session("session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", session.ID())

	require.NoError(t, session.Put(ctx, "k", []byte("first")))
	require.NoError(t, session.Put(ctx, "k", []byte("second")))

	v, ok, err := session.Take(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", string(v))

	_, ok, err = session.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "value must be cleared after Take")
}

func TestSessionStore_IsolatedBySession(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	a, err := store.Session("a")
	require.NoError(t, err)
	b, err := store.Session("b")
	require.NoError(t, err)

	require.NoError(t, a.Put(ctx, "k", []byte("from a")))

	_, ok, err := b.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := a.Take(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "from a", string(v))
}

func TestSessionStore_Selection(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	session, err := store.Session("cli")
	require.NoError(t, err)

	require.NoError(t, handoff.SaveSelection(ctx, session, model.NewFilterSelection("C", "A")))

	sel, ok, err := handoff.TakeSelection(ctx, session)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"C", "A"}, sel.IDs())

	_, ok, err = handoff.TakeSelection(ctx, session)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.Session("")
	assert.ErrorIs(t, err, ErrEmptyString)

	session, err := store.Session("s")
	require.NoError(t, err)
	assert.ErrorIs(t, session.Put(context.Background(), "", []byte("x")), ErrEmptyString)
}

func TestSQLiteStorage_PurgeSessions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	session, err := store.Session("s")
	require.NoError(t, err)
	require.NoError(t, session.Put(ctx, "k", []byte("v")))

	n, err := store.PurgeSessions(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.PurgeSessions(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
