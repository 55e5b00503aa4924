package simulation

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"chamberball/internal/simulation/ring"
)

const (
	// EventBufferSize bounds the SPSC ring so a stalled writer cannot grow
	// memory unbounded; while it is full, newly emitted events are dropped.
	EventBufferSize = 1024
	// MaxEventsPerSec is the global cap on events accepted by Emit,
	// guarding against a misbehaving chamber program flooding the log.
	MaxEventsPerSec = 2000
	// MaxEventsPerChamber is the per-chamber-id cap, so one flooding
	// chamber program cannot exhaust the global budget and starve every
	// other chamber's events out of the log (spec.md §7).
	MaxEventsPerChamber = 100
	// ChamberLimiterCleanup is how often idle per-chamber limiters are
	// evicted, so a deployment that cycles through many chamber ids over
	// time doesn't leak limiter entries.
	ChamberLimiterCleanup = 5 * time.Minute
	// BatchFlushSize is the number of events drained per writer wakeup.
	BatchFlushSize = 64
	// BatchFlushInterval is how often the writer goroutine wakes to drain.
	BatchFlushInterval = 100 * time.Millisecond
)

// EventType classifies an EventLog entry.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypeChamberProgramError
	EventTypeInvariantViolation
)

// String returns a human-readable event type name.
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeChamberProgramError:
		return "chamber_program_error"
	case EventTypeInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// Event is one entry in the log: a tick summary or an absorbed error,
// never a fatal condition (spec.md §7 — the tick always completes).
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Sequence  uint64    `json:"sequence"`
	TickNum   uint64    `json:"tickNum"`
	ChamberID int       `json:"chamberId,omitempty"`
	Payload   []byte    `json:"payload,omitempty"`
}

// TickPayload is the payload of an EventTypeTick entry.
type TickPayload struct {
	Seed       int64 `json:"seed"`
	NumBalls   int   `json:"numBalls"`
	NumChamber int   `json:"numChambers"`
}

// NewEvent builds an Event with the current wall-clock timestamp and a
// JSON-encoded payload. Sequence is assigned by EventLog.Emit.
func NewEvent(eventType EventType, tickNum uint64, chamberID int, payload interface{}) Event {
	data, _ := json.Marshal(payload)
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		ChamberID: chamberID,
		Payload:   data,
	}
}

// EventLog is a bounded, rate-limited, asynchronously-flushed log of tick
// summaries and absorbed chamber errors. The engine pushes from the tick
// goroutine; a single background goroutine drains and writes, so Emit
// never blocks on I/O.
type EventLog struct {
	queue *ring.SPSCQueue[Event]

	limiter         *rate.Limiter
	chamberLimiters sync.Map // map[int]*chamberLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	sequence     uint64
	droppedCount uint64
	totalCount   uint64
}

// chamberLimiterEntry tracks per-chamber-id rate limiting.
type chamberLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewEventLog creates a bounded event log. Start must be called to begin
// the async writer before Emit has any effect.
func NewEventLog() *EventLog {
	return &EventLog{
		queue:    ring.NewSPSCQueue[Event](EventBufferSize),
		limiter:  rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan: make(chan struct{}),
	}
}

// Start begins the async writer goroutine. An empty filePath disables file
// output but keeps in-memory stats and draining working.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}
	el.filePath = filePath

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()
	return nil
}

// Stop gracefully drains remaining events and closes the output file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit enqueues an event, subject to the global rate limit and buffer
// capacity. Returns false if the event was dropped (rate-limited, log not
// running, or the ring was full because a slow consumer had not drained it).
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}
	if !el.limiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}
	if event.ChamberID >= 0 {
		if !el.getChamberLimiter(event.ChamberID).Allow() {
			atomic.AddUint64(&el.droppedCount, 1)
			return false
		}
	}

	event.Sequence = atomic.AddUint64(&el.sequence, 1)
	if !el.queue.TryPush(event) {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}
	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple builds and emits an event in one call.
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, chamberID int, payload interface{}) bool {
	return el.Emit(NewEvent(eventType, tickNum, chamberID, payload))
}

// getChamberLimiter returns/creates the rate limiter for a chamber id.
func (el *EventLog) getChamberLimiter(chamberID int) *rate.Limiter {
	if entry, ok := el.chamberLimiters.Load(chamberID); ok {
		e := entry.(*chamberLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}

	entry := &chamberLimiterEntry{
		limiter:  rate.NewLimiter(MaxEventsPerChamber, MaxEventsPerChamber/10),
		lastUsed: time.Now(),
	}
	actual, _ := el.chamberLimiters.LoadOrStore(chamberID, entry)
	return actual.(*chamberLimiterEntry).limiter
}

// cleanupLoop evicts idle per-chamber limiters until stopped.
func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(ChamberLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupChamberLimiters()
		}
	}
}

// cleanupChamberLimiters removes limiters unused since the cleanup window.
func (el *EventLog) cleanupChamberLimiters() {
	cutoff := time.Now().Add(-ChamberLimiterCleanup)
	el.chamberLimiters.Range(func(key, value interface{}) bool {
		entry := value.(*chamberLimiterEntry)
		if entry.lastUsed.Before(cutoff) {
			el.chamberLimiters.Delete(key)
		}
		return true
	})
}

// writerLoop batches and writes events asynchronously until stopped.
func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			el.flushBatch(el.queue.Drain(BatchFlushSize))
			return
		case <-ticker.C:
			el.flushBatch(el.queue.Drain(BatchFlushSize))
		}
	}
}

// flushBatch writes events to disk as newline-delimited JSON.
func (el *EventLog) flushBatch(batch []Event) {
	if len(batch) == 0 {
		return
	}
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

// Stats returns counters useful for monitoring log health.
func (el *EventLog) Stats() map[string]uint64 {
	return map[string]uint64{
		"total":   atomic.LoadUint64(&el.totalCount),
		"dropped": atomic.LoadUint64(&el.droppedCount),
		"pending": uint64(el.queue.Len()),
	}
}
