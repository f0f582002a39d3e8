package server

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"crowdcast/server/internal/telemetry"
)

// fakeConn records every frame the hub writes, in order.
type fakeConn struct {
	mu         sync.Mutex
	frames     [][]byte
	failWrites bool
	closed     bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write failed")
	}
	copied := append([]byte(nil), data...)
	c.frames = append(c.frames, copied)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error {
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) failFromNow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWrites = true
}

func (c *fakeConn) wasClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// events decodes every recorded frame into a generic map.
func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	decoded := make([]map[string]any, 0, len(c.frames))
	for _, frame := range c.frames {
		var event map[string]any
		if err := json.Unmarshal(frame, &event); err != nil {
			t.Fatalf("failed to decode recorded frame: %v", err)
		}
		decoded = append(decoded, event)
	}
	return decoded
}

func (c *fakeConn) eventsOfType(t *testing.T, eventType string) []map[string]any {
	t.Helper()
	var matched []map[string]any
	for _, event := range c.events(t) {
		if event["type"] == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// manualClock is advanced explicitly by tests.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// afterRecorder captures deferred work instead of scheduling real timers.
type afterRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (a *afterRecorder) hook(d time.Duration, f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delays = append(a.delays, d)
	a.fns = append(a.fns, f)
}

func (a *afterRecorder) fireAll() {
	a.mu.Lock()
	fns := append([]func(){}, a.fns...)
	a.fns = nil
	a.delays = nil
	a.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func (a *afterRecorder) scheduled() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.fns)
}

func newTestHub(t *testing.T) (*Hub, *manualClock, *afterRecorder) {
	t.Helper()
	clock := newManualClock()
	after := &afterRecorder{}
	cfg := DefaultHubConfig()
	cfg.Clock = clock
	cfg.Seed = 1
	cfg.After = after.hook
	cfg.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	return NewHubWithConfig(cfg), clock, after
}

// connectParticipant attaches a fresh fake connection and returns its id.
func connectParticipant(t *testing.T, hub *Hub) (string, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	id, err := hub.Connect(conn)
	if err != nil {
		t.Fatalf("failed to connect participant: %v", err)
	}
	return id, conn
}
