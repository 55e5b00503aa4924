package simulation

import (
	"sync/atomic"
	"time"
)

// ResourceLimits bounds how large a deployment lets a simulation grow, so a
// misbehaving caller can't exhaust memory by registering unbounded
// chambers or requesting an unbounded ball population.
type ResourceLimits struct {
	MaxChambers int
	MaxBalls    int
}

// DefaultResourceLimits mirrors the constrained-deployment figures named in
// spec.md §3 (N = 5 on constrained targets, 20 otherwise) scaled up with
// headroom for the unconstrained case.
var DefaultResourceLimits = ResourceLimits{
	MaxChambers: 64,
	MaxBalls:    256,
}

// BallSnapshot is an immutable copy of one ball's state for inspection
// outside the tick loop (debug endpoints, tests).
type BallSnapshot struct {
	X, Y   float64
	VX, VY float64
	R      float64
	Owner  int
}

// SimulationSnapshot is a complete immutable view of simulation state at a
// tick boundary. Balls is pre-allocated to ResourceLimits.MaxBalls and
// never grows beyond it.
type SimulationSnapshot struct {
	Sequence    uint64
	Timestamp   time.Time
	TickNum     uint64
	Seed        int64
	NumChambers int
	Balls       []BallSnapshot
}

// SnapshotPool triple-buffers SimulationSnapshot so the tick goroutine
// (producer) and an inspecting goroutine (consumer) never contend for a
// lock.
type SnapshotPool struct {
	snapshots [3]SimulationSnapshot
	limits    ResourceLimits
	writeIdx  uint32
	readIdx   uint32
	sequence  uint64
}

// NewSnapshotPool creates a pool with pre-allocated ball slices.
func NewSnapshotPool(limits ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = SimulationSnapshot{
			Balls: make([]BallSnapshot, 0, limits.MaxBalls),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with its ball slice reset but
// capacity preserved (no per-tick allocation).
func (p *SnapshotPool) AcquireWrite() *SimulationSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]
	snap.Balls = snap.Balls[:0]
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite marks the most recent AcquireWrite slot as ready for
// readers.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot, or a zero-value
// snapshot if none has been published yet.
func (p *SnapshotPool) AcquireRead() *SimulationSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// Limits returns the resource limits the pool was built with.
func (p *SnapshotPool) Limits() ResourceLimits {
	return p.limits
}
