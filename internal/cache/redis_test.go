package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petminder/petcare-backend/internal/config"
)

type testStruct struct {
	Email  string
	Active bool
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := testStruct{Email: "owner@example.com", Active: true}
	err := cache.Set("provider:confirm:owner@example.com", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get("provider:confirm:owner@example.com", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("key", testStruct{Email: "a@b.com"}, time.Minute))
	require.NoError(t, cache.Invalidate("key"))

	var out testStruct
	found, err := cache.Get("key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
