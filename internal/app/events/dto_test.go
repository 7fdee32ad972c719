package events

import (
	"testing"
	"time"
)

func TestNewGameEventDTOStampsTimestamp(t *testing.T) {
	dto := NewGameEventDTO("counting", "success", "alice", 42)

	if dto.Game != "counting" || dto.Kind != "success" || dto.User != "alice" || dto.Value != 42 {
		t.Fatalf("dto = %+v", dto)
	}
	ts, err := time.Parse(time.RFC3339Nano, dto.Timestamp)
	if err != nil {
		t.Fatalf("timestamp %q not RFC3339Nano: %v", dto.Timestamp, err)
	}
	if time.Since(ts) > time.Minute {
		t.Errorf("timestamp %s not recent", ts)
	}
}
