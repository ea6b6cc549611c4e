package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientCacheSemantics(t *testing.T) {
	cache := NewCacheService(nil)
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	assert.ErrorIs(t, cache.Get(ctx, "k", &dest), ErrCacheMiss)
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "dataset:3", DatasetCacheKey(3))
	assert.Equal(t, "teamsheet:abc", TeamSheetCacheKey("abc"))
}
