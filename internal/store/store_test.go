package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rewind/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func counterEngine(t *testing.T, steps int) *engine.Engine {
	t.Helper()
	e, err := engine.New(map[string]any{"n": 0.0})
	require.NoError(t, err)
	for i := 1; i <= steps; i++ {
		v := float64(i)
		require.NoError(t, e.SetState(engine.Mutate(func(draft any) {
			draft.(map[string]any)["n"] = v
		})))
	}
	return e
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.ErrorIs(t, err, ErrPathRequired)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "doc", counterEngine(t, 2).Snapshot()))
	require.NoError(t, s.Close())

	s, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Position)
	assert.Equal(t, map[string]any{"n": 2.0}, snap.Value)
}

func TestStore_SaveLoadRehydrates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := counterEngine(t, 3)
	require.NoError(t, e.Back(1))
	require.NoError(t, s.Save(ctx, "doc", e.Snapshot()))

	snap, err := s.Load(ctx, "doc")
	require.NoError(t, err)

	r, err := engine.FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Position())
	assert.Equal(t, 3, r.Patches().Len())

	require.NoError(t, r.Go(0))
	assert.Equal(t, map[string]any{"n": 0.0}, r.State())
	require.NoError(t, r.Go(3))
	assert.Equal(t, map[string]any{"n": 3.0}, r.State())
}

func TestStore_LoadMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveEmptyKey(t *testing.T) {
	s := openTestStore(t)
	err := s.Save(context.Background(), "", engine.Snapshot{Value: 1.0})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "doc", engine.Snapshot{Value: 1.0}))
	require.NoError(t, s.Delete(ctx, "doc"))

	_, err := s.Load(ctx, "doc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "doc"), ErrNotFound)
}

func TestStore_Keys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"b", "a", "c/d"} {
		require.NoError(t, s.Save(ctx, k, engine.Snapshot{Value: k}))
	}

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c/d"}, keys)
}

func TestStore_CancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, "doc", engine.Snapshot{}), context.Canceled)
	_, err := s.Load(ctx, "doc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAutosave(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := counterEngine(t, 0)
	saver := Autosave(ctx, s, e, "doc")

	require.NoError(t, e.SetState(engine.Replace(map[string]any{"n": 5.0})))

	snap, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Position)
	assert.Equal(t, map[string]any{"n": 5.0}, snap.Value)

	require.NoError(t, saver.Stop())
	require.NoError(t, e.Back(1))

	snap, err = s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Position, "no save after stop")
}

type saverFunc func(ctx context.Context, key string, snap engine.Snapshot) error

func (f saverFunc) Save(ctx context.Context, key string, snap engine.Snapshot) error {
	return f(ctx, key, snap)
}

func TestAutosaveReportsFailure(t *testing.T) {
	errDiskFull := errors.New("disk full")
	calls := 0
	failing := saverFunc(func(context.Context, string, engine.Snapshot) error {
		calls++
		return errDiskFull
	})

	e := counterEngine(t, 0)
	saver := Autosave(context.Background(), failing, e, "doc")
	assert.NoError(t, saver.Err())

	require.NoError(t, e.SetState(engine.Replace(map[string]any{"n": 1.0})))
	assert.ErrorIs(t, saver.Err(), errDiskFull)

	require.NoError(t, e.SetState(engine.Replace(map[string]any{"n": 2.0})))
	assert.Equal(t, 1, calls, "saving stops after the first failure")

	assert.ErrorIs(t, saver.Stop(), errDiskFull)
}
