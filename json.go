package main

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes an optional payload. An absent or null payload
// yields the zero value.
func UnmarshalJSON[T any](data []byte) (T, error) {
	var parsed T
	if len(data) == 0 || string(data) == "null" {
		return parsed, nil
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return parsed, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return parsed, nil
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func encodeEvent(eventType string, data any) []byte {
	encoded, err := json.Marshal(envelope{Type: eventType, Data: data})
	if err != nil {
		// payloads are decoded JSON or plain structs
		panic(err)
	}
	return encoded
}
