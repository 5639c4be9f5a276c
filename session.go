package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func defaultPlayerName(sessionID string) string {
	if len(sessionID) > 4 {
		sessionID = sessionID[len(sessionID)-4:]
	}
	return "Player " + sessionID
}

// Join attaches the session to the room named by code, leaving any room it
// was in before. When the join fails the session stays where it was.
func (h *Hub) Join(sessionID, code, playerName string) (*Room, Presence, error) {
	session, exists := h.session(sessionID)
	if !exists {
		return nil, Presence{}, ErrUnknownSession
	}
	session.lock.Lock()
	defer session.lock.Unlock()

	room, exists := h.registry.GetRoom(code)
	if !exists {
		return nil, Presence{}, ErrRoomNotFound
	}
	return h.joinRoom(session, room, playerName)
}

// joinRoom expects session.lock to be held. The previous room is only left
// once the new one has accepted the session, since room may have been
// removed after the lookup.
func (h *Hub) joinRoom(session *Session, room *Room, playerName string) (*Room, Presence, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		name = defaultPlayerName(session.ID)
	}
	presence := Presence{ID: session.ID, Name: name, JoinedAt: time.Now()}
	if err := room.Attach(h, presence); err != nil {
		return nil, Presence{}, err
	}
	if session.roomCode != "" && session.roomCode != room.Code {
		if previous, exists := h.registry.GetRoom(session.roomCode); exists {
			previous.Detach(h, session.ID)
		}
	}
	session.roomCode = room.Code
	session.name = name
	return room, presence, nil
}

// UpdateState merges partial into the session's room and rebroadcasts it.
func (h *Hub) UpdateState(sessionID string, partial map[string]any) (*Room, error) {
	session, exists := h.session(sessionID)
	if !exists {
		return nil, ErrUnknownSession
	}
	session.lock.Lock()
	defer session.lock.Unlock()

	if session.roomCode == "" {
		return nil, ErrNotJoined
	}
	room, exists := h.registry.GetRoom(session.roomCode)
	if !exists {
		return nil, ErrRoomNotFound
	}
	if err := room.Merge(h, partial); err != nil {
		return nil, err
	}
	stateUpdates.Inc()
	return room, nil
}

// SendMessage broadcasts a chat line to the session's room. Unjoined
// sessions and blank lines are ignored.
func (h *Hub) SendMessage(sessionID, text string) error {
	session, exists := h.session(sessionID)
	if !exists {
		return ErrUnknownSession
	}
	session.lock.Lock()
	defer session.lock.Unlock()

	text = strings.TrimSpace(text)
	if session.roomCode == "" || text == "" {
		return nil
	}
	room, exists := h.registry.GetRoom(session.roomCode)
	if !exists {
		return ErrRoomNotFound
	}
	err := room.Say(h, ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   session.ID,
		SenderName: session.name,
		Text:       text,
		Timestamp:  time.Now(),
	})
	if err != nil {
		return err
	}
	chatMessages.Inc()
	return nil
}

// Disconnect detaches the session from its room and releases it. Every
// later operation on the id fails with ErrUnknownSession.
func (h *Hub) Disconnect(sessionID string) {
	session, exists := h.session(sessionID)
	if !exists {
		return
	}
	session.lock.Lock()
	if session.roomCode != "" {
		if room, exists := h.registry.GetRoom(session.roomCode); exists {
			room.Detach(h, session.ID)
		}
		session.roomCode = ""
	}
	session.lock.Unlock()
	h.Release(sessionID)
}

// SendError reports a protocol error to one session only.
func (h *Hub) SendError(sessionID string, err error) {
	h.Send(sessionID, encodeEvent(EventError, ErrorMessage{Message: err.Error()}))
}
