package main

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Presence is the public view of a joined session.
type Presence struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Sender delivers an encoded event to a single session. Delivery is best
// effort and never reports back to the caller beyond the returned flag.
type Sender interface {
	Send(sessionID string, msg []byte) bool
}

// Keys owned by the room itself; state updates cannot overwrite them.
var reservedStateKeys = map[string]bool{
	"id":           true,
	"roomCode":     true,
	"createdAt":    true,
	"lastActivity": true,
	"presence":     true,
}

type Room struct {
	ID        string
	Code      string
	CreatedAt time.Time

	lock         sync.Mutex
	state        map[string]any
	presence     map[string]Presence
	order        []string
	watchers     map[string]struct{}
	lastActivity time.Time
	removed      bool
}

func NewRoom(code string) *Room {
	now := time.Now()
	return &Room{
		ID:           uuid.NewString(),
		Code:         code,
		CreatedAt:    now,
		state:        defaultState(),
		presence:     make(map[string]Presence),
		watchers:     make(map[string]struct{}),
		lastActivity: now,
	}
}

func defaultState() map[string]any {
	return map[string]any{
		"party":            []any{},
		"bastionGold":      5000,
		"bastionDefenders": 0,
		"bastionTurn":      1,
		"defensiveWalls":   0,
		"armoryStocked":    false,
		"basicFacilities": []any{
			map[string]any{
				"id":    1,
				"name":  "Bedroom",
				"space": "Cramped",
				"hirelings": []any{
					map[string]any{"id": 1, "name": "Martha", "race": "Human", "role": "Caretaker"},
				},
			},
			map[string]any{
				"id":    2,
				"name":  "Kitchen",
				"space": "Roomy",
				"hirelings": []any{
					map[string]any{"id": 2, "name": "Cook", "race": "Halfling", "role": "Caretaker"},
				},
			},
		},
		"specialFacilities": []any{},
	}
}

// Attach adds p to the room, or refreshes it when the session is already
// present. The joiner gets the full state, everyone else a playerJoined
// event, and all sessions the new presence list.
func (r *Room) Attach(s Sender, p Presence) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.removed {
		return ErrRoomNotFound
	}
	_, rejoining := r.presence[p.ID]
	if !rejoining {
		r.order = append(r.order, p.ID)
	}
	r.presence[p.ID] = p
	r.lastActivity = p.JoinedAt

	s.Send(p.ID, encodeEvent(EventRoomState, r.snapshotLocked()))
	if !rejoining {
		r.broadcastLocked(s, encodeEvent(EventPlayerJoined, p), p.ID)
	}
	r.broadcastLocked(s, encodeEvent(EventPresenceUpdate, r.presenceLocked()), "")
	return nil
}

// Detach removes a session and tells the remaining ones.
func (r *Room) Detach(s Sender, sessionID string) (Presence, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	p, ok := r.presence[sessionID]
	if !ok {
		return Presence{}, false
	}
	delete(r.presence, sessionID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == sessionID })
	r.lastActivity = time.Now()

	r.broadcastLocked(s, encodeEvent(EventPlayerLeft, PlayerLeftMessage{ID: p.ID, Name: p.Name}), "")
	r.broadcastLocked(s, encodeEvent(EventPresenceUpdate, r.presenceLocked()), "")
	return p, true
}

// Merge overwrites the top-level keys named in partial and sends the whole
// resulting state to every session, the writer included.
func (r *Room) Merge(s Sender, partial map[string]any) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.removed {
		return ErrRoomNotFound
	}
	// copy on write: snapshots handed out earlier keep pointing at the old map
	next := maps.Clone(r.state)
	for key, value := range partial {
		if reservedStateKeys[key] {
			continue
		}
		next[key] = value
	}
	r.state = next
	r.lastActivity = time.Now()

	r.broadcastLocked(s, encodeEvent(EventRoomState, r.snapshotLocked()), "")
	return nil
}

func (r *Room) Say(s Sender, msg ChatMessage) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.removed {
		return ErrRoomNotFound
	}
	r.broadcastLocked(s, encodeEvent(EventChatMessage, msg), "")
	return nil
}

// Watch subscribes a read-only spectator. Spectators get every broadcast
// but have no presence and do not keep the room alive.
func (r *Room) Watch(s Sender, watcherID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.removed {
		return ErrRoomNotFound
	}
	r.watchers[watcherID] = struct{}{}
	s.Send(watcherID, encodeEvent(EventRoomState, r.snapshotLocked()))
	return nil
}

func (r *Room) Unwatch(watcherID string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.watchers, watcherID)
}

func (r *Room) Watchers() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	ids := make([]string, 0, len(r.watchers))
	for id := range r.watchers {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns the state blob merged with room metadata, the document
// served by GET /room/{code} and sent as roomState.
func (r *Room) Snapshot() map[string]any {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.snapshotLocked()
}

func (r *Room) Presence() []Presence {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.presenceLocked()
}

func (r *Room) LastActivity() time.Time {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.lastActivity
}

func (r *Room) IsEmpty() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.presence) == 0
}

func (r *Room) snapshotLocked() map[string]any {
	snapshot := maps.Clone(r.state)
	snapshot["id"] = r.ID
	snapshot["roomCode"] = r.Code
	snapshot["createdAt"] = r.CreatedAt
	snapshot["lastActivity"] = r.lastActivity
	snapshot["presence"] = r.presenceLocked()
	return snapshot
}

func (r *Room) presenceLocked() []Presence {
	list := make([]Presence, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.presence[id])
	}
	return list
}

// broadcastLocked enqueues msg for every session except one and for every
// spectator. Enqueueing under the room lock keeps per-session order equal
// to mutation order.
func (r *Room) broadcastLocked(s Sender, msg []byte, except string) {
	for _, id := range r.order {
		if id != except {
			s.Send(id, msg)
		}
	}
	for id := range r.watchers {
		s.Send(id, msg)
	}
}
