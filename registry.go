package main

import (
	"strings"
	"sync"
	"time"
)

const maxCodeAttempts = 64

// CanonicalCode normalizes a client supplied room code.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Registry owns every live room, keyed by canonical room code.
type Registry struct {
	codes        map[string]*Room
	lock         sync.RWMutex
	generateCode func() string
}

func NewRegistry(generateCode func() string) *Registry {
	return &Registry{codes: make(map[string]*Room), generateCode: generateCode}
}

func (r *Registry) GetRoom(code string) (*Room, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	room, exists := r.codes[CanonicalCode(code)]
	return room, exists
}

func (r *Registry) CreateRoom() (string, *Room, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for i := 0; i < maxCodeAttempts; i++ {
		code := CanonicalCode(r.generateCode())
		if _, exists := r.codes[code]; exists {
			continue
		}
		room := NewRoom(code)
		r.codes[code] = room
		roomsActive.Inc()
		roomsCreated.Inc()
		return code, room, nil
	}
	return "", nil, ErrCodeSpaceExhausted
}

// RemoveCode deletes a room regardless of who is connected and returns it.
// Removing an unknown code does nothing and returns nil.
func (r *Registry) RemoveCode(code string) *Room {
	room, exists := r.GetRoom(code)
	if !exists {
		return nil
	}
	room.lock.Lock()
	defer room.lock.Unlock()
	if room.removed {
		return nil
	}
	r.removeLocked(room)
	return room
}

// Sweep removes every room that has no sessions and has been idle for
// longer than maxAge. Rooms are judged one at a time under their own lock,
// so a join racing with the sweep either lands first and keeps the room or
// finds it removed.
func (r *Registry) Sweep(now time.Time, maxAge time.Duration) []*Room {
	r.lock.RLock()
	rooms := make([]*Room, 0, len(r.codes))
	for _, room := range r.codes {
		rooms = append(rooms, room)
	}
	r.lock.RUnlock()

	var removed []*Room
	for _, room := range rooms {
		room.lock.Lock()
		if !room.removed && len(room.presence) == 0 && now.Sub(room.lastActivity) > maxAge {
			r.removeLocked(room)
			removed = append(removed, room)
		}
		room.lock.Unlock()
	}
	return removed
}

func (r *Registry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.codes)
}

// removeLocked expects room.lock to be held.
func (r *Registry) removeLocked(room *Room) {
	if room.removed {
		return
	}
	room.removed = true
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.codes[room.Code] == room {
		delete(r.codes, room.Code)
		roomsActive.Dec()
	}
}
