package server

import (
	"sort"
	"sync"
)

// registry is the authoritative mapping of user id to live connection. It is
// the single piece of shared mutable state on the hot path; every mutation
// and snapshot goes through one mutex. Pushes never happen under the lock.
type registry struct {
	mu    sync.Mutex
	conns map[int]*Client
}

func newRegistry() *registry {
	return &registry{
		conns: make(map[int]*Client),
	}
}

// register stores c as the connection for its user. If another connection is
// already registered for the same user it is evicted and returned so the
// caller can close it (last writer wins for multi-tab use).
func (r *registry) register(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.conns[c.user.Id]
	r.conns[c.user.Id] = c
	return prev
}

// unregister removes the mapping for c's user only if c is still the stored
// connection. A stale close from an evicted connection must not remove its
// replacement, so clients are compared by session id rather than user id.
func (r *registry) unregister(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.conns[c.user.Id]
	if !ok || cur.sessionId != c.sessionId {
		return false
	}

	delete(r.conns, c.user.Id)
	return true
}

func (r *registry) lookup(userId int) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[userId]
	return c, ok
}

// snapshot returns the sorted set of currently registered user ids.
func (r *registry) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// clients returns a consistent snapshot of all live connections for fan-out.
func (r *registry) clients() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		clients = append(clients, c)
	}

	return clients
}
