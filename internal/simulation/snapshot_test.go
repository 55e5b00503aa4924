package simulation

import "testing"

func TestSnapshotPoolAcquirePublishRead(t *testing.T) {
	pool := NewSnapshotPool(ResourceLimits{MaxChambers: 4, MaxBalls: 8})

	snap := pool.AcquireWrite()
	snap.TickNum = 42
	snap.Balls = append(snap.Balls, BallSnapshot{X: 0.5, Y: 0.3, R: 0.025})
	pool.PublishWrite()

	read := pool.AcquireRead()
	if read.TickNum != 42 {
		t.Errorf("TickNum = %d, want 42", read.TickNum)
	}
	if len(read.Balls) != 1 {
		t.Fatalf("Balls = %v, want 1 entry", read.Balls)
	}
	if read.Balls[0].X != 0.5 {
		t.Errorf("Balls[0].X = %v, want 0.5", read.Balls[0].X)
	}
}

func TestSnapshotPoolResetsBetweenAcquires(t *testing.T) {
	pool := NewSnapshotPool(ResourceLimits{MaxChambers: 4, MaxBalls: 8})

	first := pool.AcquireWrite()
	first.Balls = append(first.Balls, BallSnapshot{X: 1})
	pool.PublishWrite()

	second := pool.AcquireWrite()
	if len(second.Balls) != 0 {
		t.Errorf("AcquireWrite should reset Balls to length 0, got %v", second.Balls)
	}
}
