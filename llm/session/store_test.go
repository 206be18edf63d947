package session

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAddKeepsOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, &schema.Message{Role: schema.User, Content: "first"}))
	require.NoError(t, store.Add(ctx, &schema.Message{Role: schema.Assistant, Content: "second"}))
	require.NoError(t, store.Add(ctx, &schema.Message{Role: schema.User, Content: "third"}))

	msgs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Equal(t, schema.Assistant, msgs[1].Role)
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, &schema.Message{Role: schema.User, Content: "original"}))

	msgs, err := store.List(ctx)
	require.NoError(t, err)
	msgs[0] = &schema.Message{Role: schema.User, Content: "tampered"}

	again, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, &schema.Message{Role: schema.User, Content: "gone soon"}))
	require.NoError(t, store.Clear(ctx))

	msgs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
