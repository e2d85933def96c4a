package jsbind

import (
	"sync"

	webln "github.com/lnbridge/go-webln"
)

// instanceTable maps the integer handle stored on each JavaScript instance
// to its client. Handles are released when the instance is garbage collected.
type instanceTable struct {
	mu      sync.Mutex
	next    int
	clients map[int]*webln.Client
}

func newInstanceTable() *instanceTable {
	return &instanceTable{clients: make(map[int]*webln.Client)}
}

// add stores c and returns its handle. Handles start at 1 and are never reused.
func (t *instanceTable) add(c *webln.Client) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.clients[t.next] = c
	return t.next
}

func (t *instanceTable) get(handle int) (*webln.Client, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.clients[handle]
	return c, ok
}

func (t *instanceTable) release(handle int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.clients, handle)
}

func (t *instanceTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}
