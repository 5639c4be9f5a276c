package main

import (
	"context"
	"time"
)

// Sweeper periodically evicts rooms that are empty and idle.
type Sweeper struct {
	registry *Registry
	hub      *Hub
	interval time.Duration
	maxAge   time.Duration
}

func NewSweeper(registry *Registry, hub *Hub, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{registry: registry, hub: hub, interval: interval, maxAge: maxAge}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.SweepOnce(now)
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce evicts what is due at now and ends the spectator streams of
// evicted rooms. It returns the number of rooms removed.
func (s *Sweeper) SweepOnce(now time.Time) int {
	removed := s.registry.Sweep(now, s.maxAge)
	for _, room := range removed {
		s.hub.endSpectators(room)
		roomsSwept.Inc()
		LogSweptRoom(room.Code, now.Sub(room.LastActivity()))
	}
	return len(removed)
}
