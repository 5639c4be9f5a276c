package main

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventJoin           = "join"
	EventUpdateState    = "updateState"
	EventChatMessage    = "chatMessage"
	EventRoomState      = "roomState"
	EventPlayerJoined   = "playerJoined"
	EventPresenceUpdate = "presenceUpdate"
	EventPlayerLeft     = "playerLeft"
	EventError          = "error"
	EventRejoinKey      = "rejoinKey"
	EventRoomClosed     = "roomClosed"
)

type JoinMessage struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	RejoinKey  string `json:"rejoinKey"`
}

type UpdateStateMessage struct {
	Fields map[string]any
}

type ChatRequest struct {
	Text string
}

type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

type PlayerLeftMessage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type RejoinKeyMessage struct {
	RejoinKey string `json:"rejoinKey"`
}

// ParseMessage returns one of JoinMessage, UpdateStateMessage or ChatRequest.
func ParseMessage(data []byte) (any, error) {
	var message struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	switch message.Type {
	case EventJoin:
		join, err := UnmarshalJSON[JoinMessage](message.Data)
		if err != nil {
			return nil, err
		}
		return join, nil
	case EventUpdateState:
		fields, err := UnmarshalJSON[map[string]any](message.Data)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			fields = map[string]any{}
		}
		return UpdateStateMessage{Fields: fields}, nil
	case EventChatMessage:
		text, err := UnmarshalJSON[string](message.Data)
		if err != nil {
			return nil, err
		}
		return ChatRequest{Text: text}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUndefinedType, message.Type)
	}
}
