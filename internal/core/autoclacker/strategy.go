package autoclacker

import (
	"context"
	"sync"
	"time"
)

const (
	clickHoldDelay     = 10 * time.Millisecond
	doubleClickGap     = 50 * time.Millisecond
	keyTapDelay        = 50 * time.Millisecond
	minBoundedHold     = 500 * time.Millisecond
	physicalHoldPeriod = 50 * time.Millisecond
	rapidFirePeriod    = 25 * time.Millisecond
)

type heldKind int

const (
	heldNone heldKind = iota
	heldMouse
	heldKey
)

type strategy struct {
	synth  Synthesizer
	clock  Clock
	logger Logger

	heldMu     sync.Mutex
	held       heldKind
	heldButton MouseButton
	heldKey    Key
}

func newStrategy(synth Synthesizer, clock Clock, logger Logger) *strategy {
	return &strategy{synth: synth, clock: clock, logger: logger}
}

type pressable struct {
	press   func()
	release func()
}

func (s *strategy) Cycle(ctx context.Context, cfg Config, cd Countdown) error {
	if cfg.Action == ActionKeyboard {
		return s.keyboardCycle(ctx, cfg.Keyboard, cd)
	}
	return s.mouseCycle(ctx, cfg.Mouse, cd)
}

func (s *strategy) mouseCycle(ctx context.Context, mc MouseConfig, cd Countdown) error {
	if mc.Mode == MouseClick {
		if err := s.clickOnce(ctx, mc.Button); err != nil {
			return err
		}
		if mc.ClickType != ClickDouble {
			return nil
		}
		if err := s.clock.Sleep(ctx, doubleClickGap); err != nil {
			return err
		}
		return s.clickOnce(ctx, mc.Button)
	}

	var deadline time.Time
	if mc.HoldMode == HoldModeDuration {
		deadline = s.holdDeadline(mc.HoldDuration, cd)
	}
	return s.hold(ctx, s.mousePressable(mc.Button), mc.HoldStyle, deadline)
}

func (s *strategy) keyboardCycle(ctx context.Context, kc KeyboardConfig, cd Countdown) error {
	if kc.Mode == KeyPress {
		s.pressKey(kc.Key)
		if err := s.clock.Sleep(ctx, keyTapDelay); err != nil {
			return err
		}
		s.releaseKey(kc.Key)
		return nil
	}

	var deadline time.Time
	if kc.HoldDuration > 0 {
		deadline = s.holdDeadline(kc.HoldDuration, cd)
	}
	return s.hold(ctx, s.keyPressable(kc.Key), kc.HoldStyle, deadline)
}

func (s *strategy) hold(ctx context.Context, p pressable, style HoldStyle, deadline time.Time) error {
	switch style {
	case HoldPhysical:
		return s.physicalHold(ctx, p, deadline)
	case HoldRapidFire:
		return s.rapidFire(ctx, p, deadline)
	}
	if deadline.IsZero() {
		s.constantHold(p)
		return nil
	}
	return s.boundedHold(ctx, p, deadline)
}

func (s *strategy) holdDeadline(holdFor time.Duration, cd Countdown) time.Time {
	window := holdFor
	if window < minBoundedHold {
		window = minBoundedHold
	}
	now := s.clock.Now()
	if !cd.Unlimited() {
		if left := cd.Remaining(now); left < window {
			window = left
		}
	}
	return now.Add(window)
}

func (s *strategy) clickOnce(ctx context.Context, button MouseButton) error {
	s.pressMouse(button)
	if err := s.clock.Sleep(ctx, clickHoldDelay); err != nil {
		return err
	}
	s.releaseMouse(button)
	return nil
}

func (s *strategy) constantHold(p pressable) {
	s.heldMu.Lock()
	outstanding := s.held != heldNone
	s.heldMu.Unlock()
	if outstanding {
		return
	}
	p.press()
}

// A cancelled wait skips the release on purpose; the controller releases
// whatever is still held once the loop has exited.
func (s *strategy) boundedHold(ctx context.Context, p pressable, deadline time.Time) error {
	p.press()
	if wait := deadline.Sub(s.clock.Now()); wait > 0 {
		if err := s.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
	p.release()
	return nil
}

func (s *strategy) physicalHold(ctx context.Context, p pressable, deadline time.Time) error {
	for {
		p.press()
		if err := s.clock.Sleep(ctx, physicalHoldPeriod); err != nil {
			return err
		}
		if !deadline.IsZero() && !s.clock.Now().Before(deadline) {
			break
		}
	}
	p.release()
	return nil
}

func (s *strategy) rapidFire(ctx context.Context, p pressable, deadline time.Time) error {
	for {
		p.press()
		if err := s.clock.Sleep(ctx, rapidFirePeriod); err != nil {
			return err
		}
		p.release()
		if err := s.clock.Sleep(ctx, rapidFirePeriod); err != nil {
			return err
		}
		if !deadline.IsZero() && !s.clock.Now().Before(deadline) {
			return nil
		}
	}
}

func (s *strategy) mousePressable(button MouseButton) pressable {
	return pressable{
		press:   func() { s.pressMouse(button) },
		release: func() { s.releaseMouse(button) },
	}
}

func (s *strategy) keyPressable(key Key) pressable {
	return pressable{
		press:   func() { s.pressKey(key) },
		release: func() { s.releaseKey(key) },
	}
}

// The held mark goes down before the injector call so a panic still gets
// released by cleanup; a returned error rolls the mark back so the next
// cycle retries the press.
func (s *strategy) pressMouse(button MouseButton) {
	s.heldMu.Lock()
	prevHeld, prevButton := s.held, s.heldButton
	s.held = heldMouse
	s.heldButton = button
	s.heldMu.Unlock()
	if err := s.synth.PressMouse(button); err != nil {
		s.heldMu.Lock()
		s.held, s.heldButton = prevHeld, prevButton
		s.heldMu.Unlock()
		s.logger.Warn("Mouse press failed", "button", button.String(), "error", err)
	}
}

func (s *strategy) releaseMouse(button MouseButton) {
	if err := s.synth.ReleaseMouse(button); err != nil {
		s.logger.Warn("Mouse release failed", "button", button.String(), "error", err)
	}
	s.heldMu.Lock()
	if s.held == heldMouse && s.heldButton == button {
		s.held = heldNone
	}
	s.heldMu.Unlock()
}

func (s *strategy) pressKey(key Key) {
	s.heldMu.Lock()
	prevHeld, prevKey := s.held, s.heldKey
	s.held = heldKey
	s.heldKey = key
	s.heldMu.Unlock()
	if err := s.synth.PressKey(key); err != nil {
		s.heldMu.Lock()
		s.held, s.heldKey = prevHeld, prevKey
		s.heldMu.Unlock()
		s.logger.Warn("Key press failed", "key", string(key), "error", err)
	}
}

func (s *strategy) releaseKey(key Key) {
	if err := s.synth.ReleaseKey(key); err != nil {
		s.logger.Warn("Key release failed", "key", string(key), "error", err)
	}
	s.heldMu.Lock()
	if s.held == heldKey && s.heldKey == key {
		s.held = heldNone
	}
	s.heldMu.Unlock()
}

func (s *strategy) ReleaseHeld() {
	s.heldMu.Lock()
	kind, button, key := s.held, s.heldButton, s.heldKey
	s.held = heldNone
	s.heldMu.Unlock()

	switch kind {
	case heldMouse:
		if err := s.synth.ReleaseMouse(button); err != nil {
			s.logger.Warn("Mouse release failed", "button", button.String(), "error", err)
		}
	case heldKey:
		if err := s.synth.ReleaseKey(key); err != nil {
			s.logger.Warn("Key release failed", "key", string(key), "error", err)
		}
	}
}
