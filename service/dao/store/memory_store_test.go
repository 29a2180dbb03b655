package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mnemos-ai/mnemos/service/dao"
)

type record struct {
	ID    string
	Value int
}

func key(r *record) string { return r.ID }

func TestMemoryStoreOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, record](key)

	for i, id := range []string{"c", "a", "b"} {
		assert.NoError(t, s.Save(ctx, &record{ID: id, Value: i}))
	}

	// Overwrite keeps the original position.
	assert.NoError(t, s.Save(ctx, &record{ID: "a", Value: 42}))

	all, err := s.List(ctx)
	assert.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, 42, all[1].Value)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, record](key)

	_ = s.Save(ctx, &record{ID: "x"})
	_ = s.Save(ctx, &record{ID: "y"})

	assert.NoError(t, s.Delete(ctx, "x"))
	assert.NoError(t, s.Delete(ctx, "missing"))

	assert.False(t, s.Exists(ctx, "x"))
	assert.True(t, s.Exists(ctx, "y"))

	loaded, err := s.Load(ctx, "x")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	all, _ := s.List(ctx)
	assert.Len(t, all, 1)
}

func TestMemoryStoreNilEntity(t *testing.T) {
	s := NewMemoryStore[string, record](key)
	assert.ErrorIs(t, s.Save(context.Background(), nil), dao.ErrNilEntity)
}
