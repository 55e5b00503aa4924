package simulation

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"chamberball/internal/config"
	"chamberball/internal/telemetry"
)

// Simulation is the tick orchestrator: it owns the ball and owner arrays,
// the chamber topology, and drives the fixed-step loop described in
// spec.md §4.7. All mutation of simulation state (tick, AddChamber, Reset)
// is guarded by a single exclusive lock held for the call's duration.
type Simulation struct {
	mu sync.RWMutex

	balls  []Ball
	owners []int

	chambers []Chamber
	layout   ChamberLayout

	cfg    config.SimulationConfig
	limits config.ResourceLimits

	seed          int64
	rng           *rand.Rand
	numStepsTaken uint64

	running      bool
	ticker       *time.Ticker
	stopChan     chan struct{}
	startInstant time.Time

	eventLog     *EventLog
	snapshotPool *SnapshotPool

	viewBuf []AdjustedBallView
}

// NewSimulation builds a simulation with numBalls balls (capped at
// limits.MaxBalls) laid out deterministically from seed, using cfg for the
// fixed constants and limits to bound chamber registration.
func NewSimulation(seed int64, numBalls int, cfg config.SimulationConfig, limits config.ResourceLimits) *Simulation {
	if numBalls > limits.MaxBalls {
		numBalls = limits.MaxBalls
	}

	rng := rand.New(rand.NewSource(seed))
	balls := make([]Ball, numBalls)
	owners := make([]int, numBalls)
	for i := range balls {
		balls[i] = Ball{
			Pos: Point{X: rng.Float64(), Y: rng.Float64() * cfg.ChamberHeight},
			R:   cfg.BallRadius,
		}
	}

	return &Simulation{
		balls:        balls,
		owners:       owners,
		layout:       NewChamberLayout(0, cfg.ChambersPerRow),
		cfg:          cfg,
		limits:       limits,
		seed:         seed,
		rng:          rng,
		stopChan:     make(chan struct{}),
		eventLog:     NewEventLog(),
		snapshotPool: NewSnapshotPool(SnapshotLimitsFrom(limits)),
		viewBuf:      make([]AdjustedBallView, 0, numBalls),
	}
}

// SnapshotLimitsFrom adapts config.ResourceLimits into the snapshot
// package's own ResourceLimits type, keeping the two packages decoupled.
func SnapshotLimitsFrom(limits config.ResourceLimits) ResourceLimits {
	return ResourceLimits{MaxChambers: limits.MaxChambers, MaxBalls: limits.MaxBalls}
}

// Seed returns the PRNG seed this simulation was constructed with.
func (s *Simulation) Seed() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seed
}

// NumStepsTaken returns the number of ticks advanced so far.
func (s *Simulation) NumStepsTaken() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.numStepsTaken
}

// NumChambers returns the layout's padded chamber count (spec.md §6).
func (s *Simulation) NumChambers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout.NumChambers
}

// Balls returns a snapshot of ball state as telemetry.BallView-compatible
// records, decoupling the telemetry package from the simulation package's
// own Ball/Point/Vector types.
func (s *Simulation) Balls() []telemetryBallView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]telemetryBallView, len(s.balls))
	for i, b := range s.balls {
		out[i] = telemetryBallView{
			X: b.Pos.X, Y: b.Pos.Y,
			VX: b.Velocity.X, VY: b.Velocity.Y,
			R: b.R, Owner: s.owners[i],
		}
	}
	return out
}

// telemetryBallView mirrors telemetry.BallView's field set. It exists so
// this package and telemetry don't share a struct type across their public
// APIs; cmd/simulator converts between the two at the wiring point.
type telemetryBallView struct {
	X, Y   float64
	VX, VY float64
	R      float64
	Owner  int
}

// EventLog exposes the simulation's event log for the telemetry package.
func (s *Simulation) EventLog() *EventLog {
	return s.eventLog
}

// SnapshotPool exposes the simulation's snapshot pool for the telemetry
// package.
func (s *Simulation) SnapshotPool() *SnapshotPool {
	return s.snapshotPool
}

// AddChamber registers a chamber, invoking its Init once, and updates the
// topology. Returns ErrCapacityExceeded without mutating state if the
// deployment's chamber limit would be exceeded (spec.md §7 CapacityError).
func (s *Simulation) AddChamber(c Chamber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chambers) >= s.limits.MaxChambers {
		return ErrCapacityExceeded
	}

	c.Init(len(s.balls))
	s.chambers = append(s.chambers, c)
	s.layout = NewChamberLayout(len(s.chambers), s.cfg.ChambersPerRow)
	return nil
}

// Reset reseeds the ball population from the stored seed, leaving
// registered chambers and the topology untouched.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rng = rand.New(rand.NewSource(s.seed))
	for i := range s.balls {
		s.balls[i] = Ball{
			Pos: Point{X: s.rng.Float64(), Y: s.rng.Float64() * s.cfg.ChamberHeight},
			R:   s.cfg.BallRadius,
		}
		s.owners[i] = 0
	}
	s.numStepsTaken = 0
}

// Start launches the paced driver goroutine, which calls tick at
// approximately 1/dt Hz and accumulates wall-clock catch-up debt rather
// than dropping ticks (spec.md §4.7). eventLogPath is forwarded to the
// event log's Start; an empty path disables file persistence but keeps
// in-memory draining and rate limiting active.
func (s *Simulation) Start(eventLogPath string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.startInstant = time.Now()
	s.mu.Unlock()

	if err := s.eventLog.Start(eventLogPath); err != nil {
		log.Printf("event log: failed to start with path %q: %v", eventLogPath, err)
	}

	dt := time.Duration(s.cfg.StepLenNanos)
	s.ticker = time.NewTicker(dt)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.catchUp()
			case <-s.stopChan:
				return
			}
		}
	}()

	log.Printf("simulation started: step=%dns chambers=%d balls=%d", s.cfg.StepLenNanos, s.NumChambers(), len(s.balls))
}

// catchUp runs as many ticks as necessary to bring numStepsTaken in line
// with elapsed wall-clock time, per the outer driver contract in §4.7.
func (s *Simulation) catchUp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.startInstant).Nanoseconds()
	stepLen := s.cfg.StepLenNanos
	taken := int64(s.numStepsTaken)

	for taken*stepLen < elapsed {
		s.tick()
		taken++
	}
}

// Stop halts the driver goroutine and flushes the event log.
func (s *Simulation) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	s.mu.Unlock()

	s.eventLog.Stop()
	log.Println("simulation stopped")
}

// Tick advances the simulation by exactly one fixed step, for callers
// (tests, deterministic replay harnesses) that want to drive ticks
// directly instead of through the wall-clock-paced driver.
func (s *Simulation) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()
}

// dt returns the fixed tick duration in seconds.
func (s *Simulation) dt() float64 {
	return float64(s.cfg.StepLenNanos) / 1e9
}

// tick runs one fixed-step cycle: integration, wrap, per-chamber
// delegation and local collisions, write-back (spec.md §4.7). Caller must
// hold s.mu.
func (s *Simulation) tick() {
	start := time.Now()
	dt := s.dt()

	s.eventLog.EmitSimple(EventTypeTick, s.numStepsTaken, -1, TickPayload{
		Seed:       s.seed,
		NumBalls:   len(s.balls),
		NumChamber: s.layout.NumChambers,
	})

	for i := range s.balls {
		Integrate(&s.balls[i], dt, s.cfg.Gravity, s.cfg.MaxSpeed)
	}

	for i := range s.balls {
		ApplyWrap(&s.balls[i].Pos, &s.owners[i], s.layout)
	}

	for c := 0; c < s.layout.NumChambers; c++ {
		view := BuildView(c, s.balls, s.owners, s.layout, s.cfg.BallRadius, s.viewBuf)
		s.viewBuf = view

		if c < len(s.chambers) {
			s.runChamberStep(c, view, dt)
		}

		resolveLocalCollisions(view)
		WriteBack(view, s.balls)
	}

	s.numStepsTaken++
	s.produceSnapshot()

	telemetry.RecordTick(time.Since(start))
	telemetry.UpdatePopulation(len(s.balls), len(s.chambers))
	stats := s.eventLog.Stats()
	telemetry.UpdateEventLogDelta(stats["total"], stats["dropped"])
}

// produceSnapshot publishes the post-tick ball state into the snapshot
// pool for external readers without holding up the tick loop on their
// behalf. telemetry's /debug/state does not read the pool; it goes through
// the locked accessors.
func (s *Simulation) produceSnapshot() {
	snap := s.snapshotPool.AcquireWrite()
	snap.TickNum = s.numStepsTaken
	snap.Seed = s.seed
	snap.NumChambers = s.layout.NumChambers
	for i, b := range s.balls {
		snap.Balls = append(snap.Balls, BallSnapshot{
			X: b.Pos.X, Y: b.Pos.Y,
			VX: b.Velocity.X, VY: b.Velocity.Y,
			R: b.R, Owner: s.owners[i],
		})
	}
	s.snapshotPool.PublishWrite()
}

// runChamberStep invokes the chamber's Step under a panic guard. A crash
// or an invariant-violating mutation is absorbed: the view's entries for
// the affected ball revert to their pre-call values and the event is
// logged, never surfaced as a Go error (spec.md §7).
func (s *Simulation) runChamberStep(chamberID int, view []AdjustedBallView, dt float64) {
	adjusted := make([]Ball, len(view))
	for i, entry := range view {
		adjusted[i] = entry.Adjusted
	}
	before := make([]Ball, len(view))
	copy(before, adjusted)

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.eventLog.EmitSimple(EventTypeChamberProgramError, s.numStepsTaken, chamberID,
					ChamberProgramError{ChamberID: chamberID, Cause: fmt.Errorf("panic: %v", r)}.Error())
				telemetry.RecordChamberError("panic")
				copy(adjusted, before)
			}
		}()
		s.chambers[chamberID].Step(adjusted, dt)
	}()

	for i := range adjusted {
		if invalid(adjusted[i]) {
			s.eventLog.EmitSimple(EventTypeInvariantViolation, s.numStepsTaken, chamberID,
				InvariantViolation{ChamberID: chamberID, BallID: view[i].BallID, Detail: "non-finite ball state"}.Error())
			telemetry.RecordChamberError("invariant_violation")
			view[i].Adjusted = before[i]
			continue
		}
		adjusted[i].Velocity = clampSpeed(adjusted[i].Velocity, s.cfg.MaxSpeed)
		view[i].Adjusted = adjusted[i]
	}
}

// invalid reports whether a ball's position, radius, or velocity contains
// a NaN or infinite value (spec.md §7 InvariantViolation).
func invalid(b Ball) bool {
	vals := []float64{b.Pos.X, b.Pos.Y, b.R, b.Velocity.X, b.Velocity.Y}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// resolveLocalCollisions runs pairwise ball-ball collisions over a view in
// ascending (k, j) index order, resolving each overlap in place before the
// next pair is tested (spec.md §4.2).
func resolveLocalCollisions(view []AdjustedBallView) {
	for k := 0; k < len(view); k++ {
		for j := k + 1; j < len(view); j++ {
			ResolveBallBall(&view[k].Adjusted, &view[j].Adjusted)
		}
	}
}
