package session

import (
	"strconv"
	"strings"
	"sync"
)

// Registry holds the member connections of one session in join order.
type Registry struct {
	mu    sync.RWMutex
	conns []*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a connection.
func (r *Registry) Add(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns = append(r.conns, c)
}

// Remove drops the connection with the given id, preserving the order of
// the rest. It is a no-op for an unknown id.
func (r *Registry) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.conns {
		if c.ID() == id {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			return
		}
	}
}

// ByID returns the member with the given id, or nil.
func (r *Registry) ByID(id int) *Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.conns {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Len reports the member count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot returns the members in join order. The slice is a copy; the
// connections are shared.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Connection, len(r.conns))
	copy(out, r.conns)
	return out
}

// Roster renders the members as alternating "id,username" pairs joined
// with commas, in join order.
func (r *Registry) Roster() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parts := make([]string, 0, len(r.conns)*2)
	for _, c := range r.conns {
		parts = append(parts, strconv.Itoa(c.ID()), c.Username())
	}
	return strings.Join(parts, ",")
}
