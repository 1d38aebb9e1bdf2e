package tracer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceSlotInstallAndLoad(t *testing.T) {
	var slot ResourceSlot
	require.Nil(t, slot.Load())

	first := &ResourceBundle{dims: NewBufferDimensions(100, 100)}
	assert.Nil(t, slot.Install(first))
	assert.Same(t, first, slot.Load())

	second := &ResourceBundle{dims: NewBufferDimensions(200, 100)}
	assert.Same(t, first, slot.Install(second))
	assert.Same(t, second, slot.Load())
}

func TestResourceSlotDiscardNil(t *testing.T) {
	var slot ResourceSlot
	assert.NotPanics(t, func() { slot.Discard(nil) })
}

func TestResourceSlotDiscardWaitsForRetireLock(t *testing.T) {
	var slot ResourceSlot
	retired := &ResourceBundle{dims: NewBufferDimensions(64, 64)}

	slot.retire.Lock()
	done := make(chan struct{})
	go func() {
		slot.Discard(retired)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("discard completed while the retire lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	slot.retire.Unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("discard never completed after the retire lock was released")
	}
}
