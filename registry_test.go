package main

import (
	"errors"
	"testing"
	"time"

	"bastion-tracker/code"
)

func TestCreateRoomThenGet(t *testing.T) {
	registry := NewRegistry(code.NewGenerator(1))
	roomCode, room, err := registry.CreateRoom()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, exists := registry.GetRoom(roomCode)
	if !exists || found != room {
		t.Fatalf("room %v not found after creation", roomCode)
	}
	if len(found.Presence()) != 0 {
		t.Errorf("wrong presence count expected: 0 got: %d", len(found.Presence()))
	}
	snapshot := found.Snapshot()
	if snapshot["bastionGold"] != 5000 || snapshot["bastionTurn"] != 1 {
		t.Errorf("room does not start with the default state: %v", snapshot)
	}
	if snapshot["roomCode"] != roomCode || snapshot["id"] != room.ID {
		t.Errorf("wrong metadata in snapshot: %v", snapshot)
	}
}

func TestGetRoomIsCaseInsensitive(t *testing.T) {
	registry := NewRegistry(sequence("Iron-Keep-123"))
	roomCode, room, _ := registry.CreateRoom()
	if roomCode != "IRON-KEEP-123" {
		t.Errorf("code not canonicalized expected: %v got: %v", "IRON-KEEP-123", roomCode)
	}
	found, exists := registry.GetRoom("iron-keep-123")
	if !exists || found != room {
		t.Errorf("lower-cased lookup did not find the room")
	}
	if _, exists := registry.GetRoom(" Iron-KEEP-123 "); !exists {
		t.Errorf("padded lookup did not find the room")
	}
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	registry := NewRegistry(sequence("STONE-FORT-100", "STONE-FORT-100", "STONE-FORT-100", "FIRE-HOLD-555"))
	first, _, _ := registry.CreateRoom()
	second, _, err := registry.CreateRoom()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Errorf("codes collided: %v", first)
	}
	if second != "FIRE-HOLD-555" {
		t.Errorf("wrong code expected: %v got: %v", "FIRE-HOLD-555", second)
	}
	if registry.Count() != 2 {
		t.Errorf("wrong room count expected: 2 got: %d", registry.Count())
	}
}

func TestCreateRoomGivesUp(t *testing.T) {
	registry := NewRegistry(sequence("GOLDEN-TOWER-321"))
	registry.CreateRoom()
	_, _, err := registry.CreateRoom()
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Errorf("wrong error expected: %v got: %v", ErrCodeSpaceExhausted, err)
	}
}

func TestRemoveCode(t *testing.T) {
	registry := NewRegistry(code.NewGenerator(2))
	roomCode, room, _ := registry.CreateRoom()
	if removed := registry.RemoveCode(roomCode); removed != room {
		t.Errorf("RemoveCode did not return the removed room")
	}
	if _, exists := registry.GetRoom(roomCode); exists {
		t.Errorf("room still registered after removal")
	}
	if removed := registry.RemoveCode(roomCode); removed != nil {
		t.Errorf("second removal returned a room")
	}
	if removed := registry.RemoveCode("NOT-A-ROOM-000"); removed != nil {
		t.Errorf("unknown code returned a room")
	}
	if err := room.Attach(newRecorder(), Presence{ID: "late"}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("attach to removed room expected: %v got: %v", ErrRoomNotFound, err)
	}
}

func TestSweep(t *testing.T) {
	registry := NewRegistry(sequence("A-A-100", "B-B-200", "C-C-300"))
	idleCode, _, _ := registry.CreateRoom()
	busyCode, busy, _ := registry.CreateRoom()
	otherIdleCode, _, _ := registry.CreateRoom()
	busy.Attach(newRecorder(), Presence{ID: "s1", Name: "Aria", JoinedAt: time.Now().Add(-48 * time.Hour)})

	maxAge := 24 * time.Hour
	removed := registry.Sweep(time.Now().Add(25*time.Hour), maxAge)
	if len(removed) != 2 {
		t.Fatalf("wrong removed count expected: 2 got: %d", len(removed))
	}
	if _, exists := registry.GetRoom(idleCode); exists {
		t.Errorf("idle empty room survived the sweep")
	}
	if _, exists := registry.GetRoom(otherIdleCode); exists {
		t.Errorf("idle empty room survived the sweep")
	}
	if _, exists := registry.GetRoom(busyCode); !exists {
		t.Errorf("occupied room was swept")
	}
	removed = registry.Sweep(time.Now().Add(1000*time.Hour), maxAge)
	if len(removed) != 0 {
		t.Errorf("occupied room was swept")
	}
}

func TestSweepKeepsRecentlyActiveRooms(t *testing.T) {
	registry := NewRegistry(code.NewGenerator(3))
	roomCode, _, _ := registry.CreateRoom()
	removed := registry.Sweep(time.Now().Add(time.Hour), 24*time.Hour)
	if len(removed) != 0 {
		t.Errorf("recent room was swept")
	}
	if _, exists := registry.GetRoom(roomCode); !exists {
		t.Errorf("recent room was swept")
	}
}

func TestSweepAfterLastSessionLeaves(t *testing.T) {
	registry := NewRegistry(code.NewGenerator(4))
	roomCode, room, _ := registry.CreateRoom()
	sender := newRecorder()
	room.Attach(sender, Presence{ID: "s1", Name: "Aria", JoinedAt: time.Now()})
	room.Detach(sender, "s1")

	if removed := registry.Sweep(time.Now().Add(23*time.Hour), 24*time.Hour); len(removed) != 0 {
		t.Errorf("room swept before its idle time passed")
	}
	if removed := registry.Sweep(time.Now().Add(25*time.Hour), 24*time.Hour); len(removed) != 1 {
		t.Errorf("room not swept after its idle time passed")
	}
	if _, exists := registry.GetRoom(roomCode); exists {
		t.Errorf("room still registered")
	}
}
