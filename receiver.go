package main

import (
	"fmt"
	"net/http"
)

// ReceiverSSE streams room events to a read-only spectator.
type ReceiverSSE struct {
	w http.ResponseWriter
	f http.Flusher
}

func NewReceiverSSE(w http.ResponseWriter, f http.Flusher) *ReceiverSSE {
	return &ReceiverSSE{w, f}
}

func (r ReceiverSSE) SendByteSlice(msg []byte) {
	fmt.Fprintf(r.w, "data: %v\n\n", string(msg))
	r.f.Flush()
}

func (r ReceiverSSE) SendRoomClosedMessage() {
	r.SendByteSlice(encodeEvent(EventRoomClosed, nil))
}
