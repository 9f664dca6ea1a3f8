package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type boardPayload struct {
	data       []byte
	statusCode int
}

func TestTTLCacheImpl(t *testing.T) {
	t.Run("Set and get", func(t *testing.T) {
		boardCache := NewTTLCache[boardPayload](1000 * time.Second)

		boardCache.set("xp:week", boardPayload{data: []byte("board"), statusCode: 200})

		result := boardCache.getOrClaim("xp:week")
		assert.False(t, result.claimed, "Expected entry to exist")
		assert.Equal(t, "board", string(result.data.data))
		assert.Equal(t, 200, result.data.statusCode)
	})

	t.Run("getOrClaim claims when missing", func(t *testing.T) {
		boardCache := NewTTLCache[boardPayload](1000 * time.Second)

		result := boardCache.getOrClaim("xp:week")
		assert.True(t, result.claimed, "Expected entry to not exist and get claimed")

		result = boardCache.getOrClaim("xp:week")
		assert.False(t, result.claimed, "Expected entry to exist and not get claimed")
		assert.False(t, result.valid, "Expected entry to be invalid")
	})

	t.Run("delete", func(t *testing.T) {
		boardCache := NewTTLCache[boardPayload](1000 * time.Second)
		boardCache.set("xp:week", boardPayload{data: []byte("board"), statusCode: 200})

		boardCache.delete("xp:week")

		result := boardCache.getOrClaim("xp:week")
		assert.True(t, result.claimed, "Expected to not find a value")
	})

	t.Run("delete missing entry", func(t *testing.T) {
		boardCache := NewTTLCache[boardPayload](1000 * time.Second)

		boardCache.delete("xp:week")

		result := boardCache.getOrClaim("xp:week")
		assert.True(t, result.claimed, "Expected to not find a value")
	})

	t.Run("wait", func(t *testing.T) {
		boardCache := NewTTLCache[boardPayload](1000 * time.Second)
		boardCache.wait()
	})
}
