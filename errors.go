package main

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrNotJoined          = errors.New("not joined to a room")
	ErrUnknownSession     = errors.New("unknown session")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrUndefinedType      = errors.New("incorrect type")
	ErrMessageTooLarge    = errors.New("message too large")
	ErrInvalidRejoinKey   = errors.New("invalid rejoin key")
	ErrCodeSpaceExhausted = errors.New("could not generate a free room code")
)
