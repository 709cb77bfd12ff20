package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthFlag(t *testing.T) {
	// the monitor wraps an already-connected client, so it starts ready and
	// Ready only reflects the flag, no round-trip happens on read
	h := NewHealth(nil, time.Second)
	assert.True(t, h.Ready())

	h.ready.Store(false)
	assert.False(t, h.Ready())

	h.ready.Store(true)
	assert.True(t, h.Ready())
}
