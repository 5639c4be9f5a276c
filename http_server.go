package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPHandler struct {
	Registry       *Registry
	Hub            *Hub
	Rejoin         *RejoinKeys
	AllowedOrigins []string
}

func NewHTTPServer(config *Config, registry *Registry, hub *Hub, rejoin *RejoinKeys) http.Handler {
	httpHandler := HTTPHandler{registry, hub, rejoin, config.AllowedOrigins}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RealIP)
	r.Use(httprate.Limit(config.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))

	r.Get("/health", httpHandler.health())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", httpHandler.websocket())
	r.Post("/room", httpHandler.createRoom())
	r.Get("/room/{roomCode}", httpHandler.getRoom())
	r.Get("/room/{roomCode}/events", httpHandler.getRoomEventStream())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h HTTPHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	}
}

func (h HTTPHandler) createRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomCode, room, err := h.Registry.CreateRoom()
		if err != nil {
			LogErrorWhileCreatingRoom(err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		LogCreatedRoom(roomCode)
		writeJSON(w, http.StatusCreated, map[string]string{
			"roomCode": roomCode,
			"roomId":   room.ID,
		})
	}
}

func (h HTTPHandler) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, exists := h.Registry.GetRoom(chi.URLParam(r, "roomCode"))
		if !exists {
			writeError(w, http.StatusNotFound, ErrRoomNotFound)
			return
		}
		writeJSON(w, http.StatusOK, room.Snapshot())
	}
}

func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !originAllowed(r.Header.Get("Origin"), h.AllowedOrigins) {
			writeError(w, http.StatusForbidden, errors.New("origin not allowed"))
			return
		}
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		playerWs := NewPlayerWebsocket(conn)
		out := make(chan []byte, sendBufferSize)
		session := h.Hub.Register(out)
		logger := GetSessionLogger(r.RemoteAddr, session.ID)
		logger.Connected()
		defer func() {
			h.Hub.Disconnect(session.ID)
			playerWs.Close()
			logger.Disconnected()
		}()

		go playerWs.WriteLoop(out, pingPeriod)

		for {
			msg, err := playerWs.ReadMessage()
			if err != nil {
				if errors.Is(err, ErrUndefinedType) || errors.Is(err, ErrInvalidPayload) {
					logger.ProtocolError(err)
					h.Hub.SendError(session.ID, err)
					continue
				}
				return
			}
			h.handleMessage(session.ID, msg, logger)
		}
	}
}

func (h HTTPHandler) handleMessage(sessionID string, msg any, logger SessionLogger) {
	switch m := msg.(type) {
	case JoinMessage:
		roomCode, playerName := m.RoomCode, m.PlayerName
		if roomCode == "" && m.RejoinKey != "" {
			code, name, err := h.Rejoin.Parse(m.RejoinKey)
			if err != nil {
				logger.ProtocolError(err)
				h.Hub.SendError(sessionID, ErrInvalidRejoinKey)
				return
			}
			roomCode = code
			if playerName == "" {
				playerName = name
			}
		}
		room, presence, err := h.Hub.Join(sessionID, roomCode, playerName)
		if err != nil {
			logger.ProtocolError(err)
			h.Hub.SendError(sessionID, err)
			return
		}
		logger.JoinedRoom(room.Code, presence.Name)
		if key, err := h.Rejoin.Generate(room.Code, presence.Name); err == nil {
			h.Hub.Send(sessionID, encodeEvent(EventRejoinKey, RejoinKeyMessage{RejoinKey: key}))
		}
	case UpdateStateMessage:
		room, err := h.Hub.UpdateState(sessionID, m.Fields)
		if err != nil {
			logger.ProtocolError(err)
			h.Hub.SendError(sessionID, err)
			return
		}
		logger.UpdatedState(room.Code, len(m.Fields))
	case ChatRequest:
		if err := h.Hub.SendMessage(sessionID, m.Text); err != nil {
			logger.ProtocolError(err)
			h.Hub.SendError(sessionID, err)
		}
	}
}

func (h HTTPHandler) getRoomEventStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "HTTP Streaming not supported!", http.StatusBadRequest)
			return
		}
		room, exists := h.Registry.GetRoom(chi.URLParam(r, "roomCode"))
		if !exists {
			writeError(w, http.StatusNotFound, ErrRoomNotFound)
			return
		}
		sendChannel := make(chan []byte, sendBufferSize)
		spectator := h.Hub.Register(sendChannel)
		defer h.Hub.Release(spectator.ID)
		if err := room.Watch(h.Hub, spectator.ID); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		defer room.Unwatch(spectator.ID)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		receiverSSE := NewReceiverSSE(w, flusher)
		logger := GetSessionLogger(r.RemoteAddr, spectator.ID)
		logger.Watching(room.Code)
		for {
			select {
			case msg, more := <-sendChannel:
				if !more {
					receiverSSE.SendRoomClosedMessage()
					logger.StoppedWatching(room.Code)
					return
				}
				receiverSSE.SendByteSlice(msg)
			case <-r.Context().Done():
				logger.StoppedWatching(room.Code)
				return
			}
		}
	}
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
