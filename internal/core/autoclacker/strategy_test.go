package autoclacker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSynth struct {
	mu          sync.Mutex
	events      []string
	pressErr    error
	failPresses int
}

func (r *recordingSynth) PressMouse(button MouseButton) error {
	r.record("mouse-down:" + button.String())
	return r.pressResult()
}

func (r *recordingSynth) ReleaseMouse(button MouseButton) error {
	r.record("mouse-up:" + button.String())
	return nil
}

func (r *recordingSynth) PressKey(key Key) error {
	r.record("key-down:" + string(key))
	return r.pressResult()
}

func (r *recordingSynth) ReleaseKey(key Key) error {
	r.record("key-up:" + string(key))
	return nil
}

func (r *recordingSynth) pressResult() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPresses > 0 {
		r.failPresses--
		return errors.New("injection refused")
	}
	return r.pressErr
}

func (r *recordingSynth) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSynth) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type testClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1700000000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

func (c *testClock) slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

func assertEvents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestClickCycleEmitsPressThenRelease(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{Button: ButtonLeft, Mode: MouseClick}}
	if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-up:left")
	if slept := clock.slept(); len(slept) != 1 || slept[0] != clickHoldDelay {
		t.Fatalf("expected a single %v press delay, got %v", clickHoldDelay, slept)
	}
}

func TestDoubleClickEmitsTwoPairs(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{Button: ButtonRight, ClickType: ClickDouble, Mode: MouseClick}}
	if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(),
		"mouse-down:right", "mouse-up:right",
		"mouse-down:right", "mouse-up:right")
	if slept := clock.slept(); len(slept) != 3 || slept[1] != doubleClickGap {
		t.Fatalf("expected press, gap, press delays, got %v", slept)
	}
}

func TestConstantHoldPressesOnlyOnce(t *testing.T) {
	synth := &recordingSynth{}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{Button: ButtonLeft, Mode: MouseHold, HoldMode: HoldModeConstant}}
	for i := 0; i < 3; i++ {
		if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
			t.Fatalf("Cycle() error = %v at iteration %d", err, i)
		}
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left")

	strat.ReleaseHeld()
	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-up:left")
}

func TestConstantHoldRetriesAfterFailedPress(t *testing.T) {
	synth := &recordingSynth{failPresses: 1}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{Button: ButtonLeft, Mode: MouseHold, HoldMode: HoldModeConstant}}
	for i := 0; i < 3; i++ {
		if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
			t.Fatalf("Cycle() error = %v at iteration %d", err, i)
		}
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-down:left")

	strat.ReleaseHeld()
	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-down:left", "mouse-up:left")
}

func TestBoundedHoldClampedByRemainingTime(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{
		Button:       ButtonLeft,
		Mode:         MouseHold,
		HoldMode:     HoldModeDuration,
		HoldDuration: 2 * time.Second,
	}}
	cd := NewCountdown(cfg, clock.Now().Add(-1900*time.Millisecond))

	if err := strat.Cycle(context.Background(), cfg, cd); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-up:left")
	if slept := clock.slept(); len(slept) != 1 || slept[0] != 100*time.Millisecond {
		t.Fatalf("expected hold clamped to remaining 100ms, got %v", slept)
	}
}

func TestBoundedHoldEnforcesMinimumWindow(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{
		Button:       ButtonLeft,
		Mode:         MouseHold,
		HoldMode:     HoldModeDuration,
		HoldDuration: 120 * time.Millisecond,
	}}

	if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-up:left")
	if slept := clock.slept(); len(slept) != 1 || slept[0] != minBoundedHold {
		t.Fatalf("expected hold widened to %v, got %v", minBoundedHold, slept)
	}
}

func TestBoundedHoldCancelledLeavesReleaseToCleanup(t *testing.T) {
	synth := &recordingSynth{}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{
		Button:       ButtonRight,
		Mode:         MouseHold,
		HoldMode:     HoldModeDuration,
		HoldDuration: time.Second,
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := strat.Cycle(ctx, cfg, Countdown{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Cycle() error = %v, want context.Canceled", err)
	}

	assertEvents(t, synth.snapshot(), "mouse-down:right")

	strat.ReleaseHeld()
	strat.ReleaseHeld()
	assertEvents(t, synth.snapshot(), "mouse-down:right", "mouse-up:right")
}

func TestPhysicalHoldReissuesPressAtCadence(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{
		Button:       ButtonLeft,
		Mode:         MouseHold,
		HoldMode:     HoldModeDuration,
		HoldDuration: 200 * time.Millisecond,
		HoldStyle:    HoldPhysical,
	}}
	cd := NewCountdown(cfg, clock.Now())

	if err := strat.Cycle(context.Background(), cfg, cd); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	events := synth.snapshot()
	downs, ups := 0, 0
	for _, event := range events {
		switch event {
		case "mouse-down:left":
			downs++
		case "mouse-up:left":
			ups++
		}
	}
	if downs != 4 || ups != 1 {
		t.Fatalf("expected 4 presses and 1 release, got %d/%d: %v", downs, ups, events)
	}
	if events[len(events)-1] != "mouse-up:left" {
		t.Fatalf("expected release last, got %v", events)
	}
}

func TestPhysicalHoldCancelledSkipsFinalRelease(t *testing.T) {
	synth := &recordingSynth{}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{
		Button:    ButtonLeft,
		Mode:      MouseHold,
		HoldMode:  HoldModeConstant,
		HoldStyle: HoldPhysical,
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := strat.Cycle(ctx, cfg, Countdown{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Cycle() error = %v, want context.Canceled", err)
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left")

	strat.ReleaseHeld()
	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-up:left")
}

func TestRapidFireEmitsCompletePairs(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{
		Button:       ButtonLeft,
		Mode:         MouseHold,
		HoldMode:     HoldModeDuration,
		HoldDuration: 100 * time.Millisecond,
		HoldStyle:    HoldRapidFire,
	}}
	cd := NewCountdown(cfg, clock.Now())

	if err := strat.Cycle(context.Background(), cfg, cd); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(),
		"mouse-down:left", "mouse-up:left",
		"mouse-down:left", "mouse-up:left")

	strat.ReleaseHeld()
	if events := synth.snapshot(); len(events) != 4 {
		t.Fatalf("expected nothing left held after rapid fire, got %v", events)
	}
}

func TestKeyPressCycleTapsKey(t *testing.T) {
	synth := &recordingSynth{}
	clock := newTestClock()
	strat := newStrategy(synth, clock, noopLogger{})

	cfg := Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Key: "space", Mode: KeyPress}}
	if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(), "key-down:space", "key-up:space")
	if slept := clock.slept(); len(slept) != 1 || slept[0] != keyTapDelay {
		t.Fatalf("expected a single %v tap delay, got %v", keyTapDelay, slept)
	}
}

func TestIndefiniteKeyHoldIsIdempotent(t *testing.T) {
	synth := &recordingSynth{}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Key: "w", Mode: KeyHold}}
	for i := 0; i < 3; i++ {
		if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
			t.Fatalf("Cycle() error = %v at iteration %d", err, i)
		}
	}

	assertEvents(t, synth.snapshot(), "key-down:w")

	strat.ReleaseHeld()
	assertEvents(t, synth.snapshot(), "key-down:w", "key-up:w")
}

func TestIndefiniteKeyHoldRetriesAfterFailedPress(t *testing.T) {
	synth := &recordingSynth{failPresses: 1}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Key: "w", Mode: KeyHold}}
	for i := 0; i < 3; i++ {
		if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
			t.Fatalf("Cycle() error = %v at iteration %d", err, i)
		}
	}

	assertEvents(t, synth.snapshot(), "key-down:w", "key-down:w")

	strat.ReleaseHeld()
	assertEvents(t, synth.snapshot(), "key-down:w", "key-down:w", "key-up:w")
}

func TestPressFailureDoesNotAbortCycle(t *testing.T) {
	synth := &recordingSynth{pressErr: errors.New("injection refused")}
	strat := newStrategy(synth, newTestClock(), noopLogger{})

	cfg := Config{Action: ActionMouse, Mouse: MouseConfig{Button: ButtonLeft, Mode: MouseClick}}
	if err := strat.Cycle(context.Background(), cfg, Countdown{}); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}

	assertEvents(t, synth.snapshot(), "mouse-down:left", "mouse-up:left")
}
