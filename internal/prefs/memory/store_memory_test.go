package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personalinfo/internal/prefs"
	"personalinfo/pkg/platform/sentinel"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("read returns only present keys", func(t *testing.T) {
		s := New(WithValues(map[string]string{"name": "Test Name"}))
		got, err := s.Read(ctx, []string{"name", "email"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "Test Name"}, got)
	})

	t.Run("commit applies the whole batch", func(t *testing.T) {
		s := New()
		err := s.Commit(ctx, prefs.NewBatch().PutString("name", "a").PutInt64("date_of_birth", 1))
		require.NoError(t, err)

		got, err := s.Read(ctx, []string{"name", "date_of_birth"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "a", "date_of_birth": "1"}, got)
		assert.Equal(t, 1, s.Commits())
	})

	t.Run("broken store rejects commit and keeps prior values", func(t *testing.T) {
		s := New(WithValues(map[string]string{"name": "before"}), WithCommitError(sentinel.ErrCommitFailed))
		err := s.Commit(ctx, prefs.NewBatch().PutString("name", "after").PutString("email", "x@y.z"))
		require.ErrorIs(t, err, sentinel.ErrCommitFailed)

		got, err := s.Read(ctx, []string{"name", "email"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "before"}, got)
		assert.Equal(t, 0, s.Commits())
	})

	t.Run("cancelled context is rejected", func(t *testing.T) {
		s := New()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, s.Commit(cctx, prefs.NewBatch().PutString("name", "a")), context.Canceled)
		_, err := s.Read(cctx, []string{"name"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("clear drops values", func(t *testing.T) {
		s := New(WithValues(map[string]string{"name": "a"}))
		s.Clear()
		got, err := s.Read(ctx, []string{"name"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStore_ConcurrentCommitsAreAtomic(t *testing.T) {
	s := New()
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			v := "writer"
			if i%2 == 0 {
				v = "other"
			}
			assert.NoError(t, s.Commit(ctx, prefs.NewBatch().PutString("a", v).PutString("b", v)))
			got, err := s.Read(ctx, []string{"a", "b"})
			assert.NoError(t, err)
			assert.Equal(t, got["a"], got["b"], "reads must never see half a batch")
		}()
	}
	wg.Wait()
	assert.Equal(t, goroutines, s.Commits())
}
