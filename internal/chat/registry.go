package chat

import (
	"context"
	"sync"
)

// Peer is one live client channel registered to a room. *Conn is the
// production implementation; tests substitute fakes.
type Peer interface {
	// Send delivers one frame, honoring the context deadline.
	Send(ctx context.Context, data []byte) error
	Close() error
}

// Registry maps game IDs to the set of live peers in that room. A room
// entry exists iff its set is non-empty; empty rooms are pruned, not
// kept as placeholders. Created once at startup and passed by reference.
type Registry struct {
	mu    sync.RWMutex
	rooms map[int64]map[Peer]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{rooms: map[int64]map[Peer]struct{}{}}
}

// Register adds a peer to a room, creating the room on first join.
// Set semantics make a repeated Register a no-op.
func (r *Registry) Register(gameID int64, p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.rooms[gameID]
	if set == nil {
		set = map[Peer]struct{}{}
		r.rooms[gameID] = set
	}
	set[p] = struct{}{}
}

// Unregister removes a peer from a room and drops the room once its set
// empties. Safe to call for a peer that was already removed.
func (r *Registry) Unregister(gameID int64, p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.rooms[gameID]
	if set == nil {
		return
	}
	delete(set, p)
	if len(set) == 0 {
		delete(r.rooms, gameID)
	}
}

// Connections returns a snapshot of the room's peers. The copy keeps a
// concurrent disconnect from corrupting a broadcast iteration.
func (r *Registry) Connections(gameID int64) []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.rooms[gameID]
	out := make([]Peer, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// Counts returns the number of live peers per room, for the admin
// introspection endpoint and shutdown.
func (r *Registry) Counts() map[int64]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int, len(r.rooms))
	for id, set := range r.rooms {
		out[id] = len(set)
	}
	return out
}

// all snapshots every registered peer across rooms
func (r *Registry) all() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Peer
	for _, set := range r.rooms {
		for p := range set {
			out = append(out, p)
		}
	}
	return out
}
