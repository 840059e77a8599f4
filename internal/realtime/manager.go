// Package realtime multiplexes document watches over long-lived client
// connections. The manager owns no persistent state: it maps connection
// ids to store subscriptions and guarantees each subscription is torn
// down exactly once when the connection closes.
package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/aryarobyy/to-do-list-be/internal/store"
)

// ErrConnectionClosed is returned when a watch is requested on a
// connection that is unknown or already disconnected.
var ErrConnectionClosed = errors.New("connection closed")

// Event is a change notification forwarded to a connection. Gone marks
// a deleted document, distinct from "no update yet".
type Event struct {
	Path string         `json:"path"`
	Gone bool           `json:"gone,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

type connection struct {
	closed  bool
	watches map[string]func()
}

// Manager tracks active watches per connection. A connection moves
// through Connected -> Watching -> Disconnected; Disconnected is
// terminal.
type Manager struct {
	st store.Store

	mu    sync.Mutex
	conns map[string]*connection
}

// NewManager returns a manager over the given store.
func NewManager(st store.Store) *Manager {
	return &Manager{st: st, conns: make(map[string]*connection)}
}

// Connect registers a new connection with zero watches.
func (m *Manager) Connect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conns[connID]; !ok {
		m.conns[connID] = &connection{watches: make(map[string]func())}
	}
}

// Watch subscribes the connection to change notifications for the
// document at path. Re-watching the same path replaces the previous
// subscription instead of accumulating a second one. Events delivered
// after the connection closed are dropped.
func (m *Manager) Watch(ctx context.Context, connID, path string, send func(Event)) error {
	m.mu.Lock()
	conn, ok := m.conns[connID]
	if !ok || conn.closed {
		m.mu.Unlock()
		return ErrConnectionClosed
	}
	m.mu.Unlock()

	cancel, err := m.st.Watch(ctx, path, func(snap store.Snapshot) {
		m.mu.Lock()
		conn, ok := m.conns[connID]
		if !ok || conn.closed {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		if snap.Exists {
			send(Event{Path: path, Data: snap.Data})
		} else {
			send(Event{Path: path, Gone: true})
		}
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	conn, ok = m.conns[connID]
	if !ok || conn.closed {
		// Lost the race with a disconnect; drop the fresh subscription.
		m.mu.Unlock()
		cancel()
		return ErrConnectionClosed
	}
	if prev, exists := conn.watches[path]; exists {
		prev()
	}
	conn.watches[path] = cancel
	m.mu.Unlock()
	return nil
}

// UnwatchAll tears down every subscription held by the connection,
// invoking each unsubscribe handle exactly once, and retires the
// connection id. Calling it again is a no-op.
func (m *Manager) UnwatchAll(connID string) {
	m.mu.Lock()
	conn, ok := m.conns[connID]
	if !ok {
		m.mu.Unlock()
		return
	}
	conn.closed = true
	cancels := make([]func(), 0, len(conn.watches))
	for _, cancel := range conn.watches {
		cancels = append(cancels, cancel)
	}
	delete(m.conns, connID)
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
