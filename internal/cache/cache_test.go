package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryKey(t *testing.T) {
	a := QueryKey("listings", map[string]string{"category": "Beach", "locationValue": "PH"})
	b := QueryKey("listings", map[string]string{"locationValue": "PH", "category": "Beach"})
	c := QueryKey("listings", map[string]string{"category": "Beach"})

	assert.Equal(t, a, b, "parameter order does not change the key")
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "listings:"))
	assert.Len(t, strings.TrimPrefix(a, "listings:"), 32)
}

func TestNoopCache(t *testing.T) {
	var c Cache = NoopCache{}
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []string{"v"}))

	var dest []string
	found, err := c.Get(ctx, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dest)

	assert.NoError(t, c.InvalidatePrefix(ctx, "k"))
}

func TestRedisCacheImplementsCache(t *testing.T) {
	var _ Cache = NewRedisCache("localhost:6379", "", 0, nil)
}

func TestDecodeEntry(t *testing.T) {
	var listings []map[string]string
	found, err := decodeEntry("listings:a", []byte(`[{"id":"L1"}]`), &listings)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "L1", listings[0]["id"])

	var broken []map[string]string
	found, err = decodeEntry("listings:b", []byte(`{"id":`), &broken)
	assert.Error(t, err)
	assert.False(t, found, "undecodable entries are misses")
}
