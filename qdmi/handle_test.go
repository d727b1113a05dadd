package qdmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionHandleGenerational(t *testing.T) {
	h1 := NewSessionHandle(3, 1)
	h2 := NewSessionHandle(3, 2)

	assert.Equal(t, uint32(3), h1.Index())
	assert.Equal(t, uint32(1), h1.Generation())
	assert.NotEqual(t, h1, h2, "a reused slot's generation bump must produce a distinct handle value")
}

func TestSessionHandleIsZero(t *testing.T) {
	var zero SessionHandle
	assert.True(t, zero.IsZero())
	assert.False(t, NewSessionHandle(0, 1).IsZero())
}

func TestDeviceHandleIndex(t *testing.T) {
	h := NewDeviceHandle(7)
	assert.Equal(t, uint32(7), h.Index())
}
