package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bastion_rooms_active",
		Help: "Rooms currently held in memory.",
	})
	roomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bastion_rooms_created_total",
		Help: "Rooms created since start.",
	})
	roomsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bastion_rooms_swept_total",
		Help: "Empty, idle rooms evicted by the sweeper.",
	})
	sessionsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bastion_sessions_connected",
		Help: "Open websocket sessions and spectator streams.",
	})
	stateUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bastion_state_updates_total",
		Help: "Applied updateState messages.",
	})
	chatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bastion_chat_messages_total",
		Help: "Broadcast chat messages.",
	})
	droppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bastion_dropped_messages_total",
		Help: "Outbound messages dropped because a session buffer was full.",
	})
)
