package tracer

import (
	"sync"
	"sync/atomic"
)

// ResourceSlot holds exactly one live ResourceBundle. Replacement is a
// whole-bundle atomic swap; bundles are never mutated in place. The retire
// mutex serializes bundle release against readers that borrow the bundle
// outside the frame loop (the exporter), so a resize can never free resources
// out from under an in-progress export.
type ResourceSlot struct {
	current atomic.Pointer[ResourceBundle]
	retire  sync.Mutex
}

// Load returns the currently installed bundle, or nil if none has been
// installed yet.
//
// Returns:
//   - *ResourceBundle: the live bundle, or nil
func (s *ResourceSlot) Load() *ResourceBundle {
	return s.current.Load()
}

// Install atomically replaces the live bundle with b and returns the previous
// one. The caller is responsible for releasing the returned bundle via Discard
// once no frame references it.
//
// Parameters:
//   - b: the new bundle to install
//
// Returns:
//   - *ResourceBundle: the previously installed bundle, or nil
func (s *ResourceSlot) Install(b *ResourceBundle) *ResourceBundle {
	return s.current.Swap(b)
}

// Discard releases a retired bundle's GPU resources. Blocks while an export
// holds the retire lock, so release never races a readback in flight.
//
// Parameters:
//   - b: the retired bundle to release (nil safe)
func (s *ResourceSlot) Discard(b *ResourceBundle) {
	if b == nil {
		return
	}
	s.retire.Lock()
	defer s.retire.Unlock()
	b.Release()
}
