package main

import (
	"sync"

	"github.com/google/uuid"
)

// Session is one live connection. Its room and name are only touched by the
// protocol operations in session.go, which serialize on lock.
type Session struct {
	ID string

	lock     sync.Mutex
	name     string
	roomCode string
	out      chan []byte
}

// Hub is the session table and the broadcast channel rooms deliver through.
// Rooms only keep session ids; the hub maps them to outbound queues.
type Hub struct {
	registry *Registry
	sessions map[string]*Session
	lock     sync.RWMutex
}

func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry, sessions: make(map[string]*Session)}
}

// Register creates a session whose outbound messages are queued on out.
func (h *Hub) Register(out chan []byte) *Session {
	session := &Session{ID: uuid.NewString(), out: out}
	h.lock.Lock()
	defer h.lock.Unlock()
	h.sessions[session.ID] = session
	sessionsConnected.Inc()
	return session
}

// Send queues msg for a session without blocking. A full queue drops the
// message; the next full-state snapshot supersedes it anyway.
func (h *Hub) Send(sessionID string, msg []byte) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	session, exists := h.sessions[sessionID]
	if !exists {
		return false
	}
	select {
	case session.out <- msg:
		return true
	default:
		droppedMessages.Inc()
		LogDroppedMessage(sessionID)
		return false
	}
}

// Release forgets a session and closes its queue. Safe to call twice.
func (h *Hub) Release(sessionID string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	session, exists := h.sessions[sessionID]
	if !exists {
		return
	}
	delete(h.sessions, sessionID)
	close(session.out)
	sessionsConnected.Dec()
}

// CloseRoom removes a room from the registry and ends its spectator
// streams. Joined sessions stay connected; their next operation reports
// ErrRoomNotFound.
func (h *Hub) CloseRoom(code string) bool {
	room := h.registry.RemoveCode(code)
	if room == nil {
		return false
	}
	h.endSpectators(room)
	return true
}

// endSpectators releases every watcher of a removed room, which closes their
// queues and makes the streams send roomClosed.
func (h *Hub) endSpectators(room *Room) {
	for _, watcherID := range room.Watchers() {
		h.Release(watcherID)
	}
}

func (h *Hub) session(sessionID string) (*Session, bool) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	session, exists := h.sessions[sessionID]
	return session, exists
}

func (h *Hub) Count() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.sessions)
}
