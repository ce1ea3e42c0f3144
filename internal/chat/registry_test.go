package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePeer records deliveries and can be told to fail them.
type fakePeer struct {
	mu       sync.Mutex
	received [][]byte
	fail     bool
	closed   bool
}

func (f *fakePeer) Send(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send failed")
	}
	f.received = append(f.received, data)
	return nil
}

func (f *fakePeer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePeer) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.received...)
}

func TestRegistryRegisterAndSnapshot(t *testing.T) {
	reg := NewRegistry()
	a, b := &fakePeer{}, &fakePeer{}

	reg.Register(42, a)
	reg.Register(42, b)
	require.Len(t, reg.Connections(42), 2)

	// Registering twice must not create a duplicate delivery target.
	reg.Register(42, a)
	require.Len(t, reg.Connections(42), 2)
}

func TestRegistryUnregisterPrunesEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	a := &fakePeer{}

	reg.Register(7, a)
	require.Equal(t, map[int64]int{7: 1}, reg.Counts())

	reg.Unregister(7, a)
	require.Empty(t, reg.Counts(), "empty room must be pruned, not kept as a placeholder")
	require.Empty(t, reg.Connections(7))
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	a := &fakePeer{}

	reg.Register(7, a)
	reg.Unregister(7, a)
	require.NotPanics(t, func() { reg.Unregister(7, a) })
	require.NotPanics(t, func() { reg.Unregister(99, a) })
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	reg := NewRegistry()
	a, b := &fakePeer{}, &fakePeer{}
	reg.Register(1, a)
	reg.Register(1, b)

	snap := reg.Connections(1)
	reg.Unregister(1, a)
	reg.Unregister(1, b)

	// Mutation after the snapshot must not affect the caller's view.
	require.Len(t, snap, 2)
	require.Empty(t, reg.Connections(1))
}

func TestRegistryConcurrentChurn(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := &fakePeer{}
			reg.Register(3, p)
			reg.Connections(3)
			reg.Unregister(3, p)
		}()
	}
	wg.Wait()

	require.Empty(t, reg.Counts())
}
