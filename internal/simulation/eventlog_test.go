package simulation

import (
	"testing"
	"time"
)

func TestEventLogEmitRequiresRunning(t *testing.T) {
	el := NewEventLog()
	if el.Emit(NewEvent(EventTypeTick, 0, -1, nil)) {
		t.Errorf("Emit before Start should be rejected")
	}
}

func TestEventLogEmitAndDrain(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer el.Stop()

	for i := 0; i < 5; i++ {
		if !el.EmitSimple(EventTypeTick, uint64(i), -1, TickPayload{Seed: 1, NumBalls: 5}) {
			t.Errorf("EmitSimple(%d) rejected unexpectedly", i)
		}
	}

	stats := el.Stats()
	if stats["total"] != 5 {
		t.Errorf("total = %d, want 5", stats["total"])
	}
}

func TestEventLogStopFlushesWithoutPanic(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	el.EmitSimple(EventTypeTick, 0, -1, nil)
	time.Sleep(time.Millisecond)
	el.Stop()
}
