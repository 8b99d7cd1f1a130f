package autoclacker

import "time"

func ActiveDuration(cfg Config) time.Duration {
	switch cfg.Action {
	case ActionKeyboard:
		k := cfg.Keyboard
		if k.Mode == KeyHold && k.HoldDuration > 0 {
			return k.HoldDuration
		}
		if k.Mode == KeyPress && cfg.RunMode == RunModeTimer {
			return cfg.TotalDuration
		}
	default:
		m := cfg.Mouse
		if m.Mode == MouseClick && m.ClickMode == ClickModeDuration {
			return m.ClickDuration
		}
		if m.Mode == MouseHold && m.HoldMode == HoldModeDuration {
			return m.HoldDuration
		}
	}
	return 0
}

type Countdown struct {
	start time.Time
	total time.Duration
}

func NewCountdown(cfg Config, start time.Time) Countdown {
	return Countdown{start: start, total: ActiveDuration(cfg)}
}

func (c Countdown) Unlimited() bool {
	return c.total <= 0
}

func (c Countdown) Remaining(now time.Time) time.Duration {
	if c.Unlimited() {
		return 0
	}
	left := c.total - now.Sub(c.start)
	if left < 0 {
		return 0
	}
	return left
}

func (c Countdown) Expired(now time.Time) bool {
	return !c.Unlimited() && c.Remaining(now) == 0
}
