package autoclacker

import (
	"testing"
	"time"
)

func TestActiveDurationDecisionTable(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected time.Duration
	}{
		{
			name: "mouse click constant",
			cfg:  Config{Action: ActionMouse, Mouse: MouseConfig{Mode: MouseClick, ClickMode: ClickModeConstant, ClickDuration: time.Second}},
		},
		{
			name:     "mouse click duration",
			cfg:      Config{Action: ActionMouse, Mouse: MouseConfig{Mode: MouseClick, ClickMode: ClickModeDuration, ClickDuration: 3 * time.Second}},
			expected: 3 * time.Second,
		},
		{
			name: "mouse hold constant",
			cfg:  Config{Action: ActionMouse, Mouse: MouseConfig{Mode: MouseHold, HoldMode: HoldModeConstant, HoldDuration: time.Second}},
		},
		{
			name:     "mouse hold duration",
			cfg:      Config{Action: ActionMouse, Mouse: MouseConfig{Mode: MouseHold, HoldMode: HoldModeDuration, HoldDuration: 2 * time.Second}},
			expected: 2 * time.Second,
		},
		{
			name: "mouse ignores run timer",
			cfg:  Config{Action: ActionMouse, RunMode: RunModeTimer, TotalDuration: 9 * time.Second},
		},
		{
			name: "keyboard press constant",
			cfg:  Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Mode: KeyPress}},
		},
		{
			name:     "keyboard press timer",
			cfg:      Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Mode: KeyPress}, RunMode: RunModeTimer, TotalDuration: 4 * time.Second},
			expected: 4 * time.Second,
		},
		{
			name:     "keyboard bounded hold",
			cfg:      Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Mode: KeyHold, HoldDuration: 5 * time.Second}},
			expected: 5 * time.Second,
		},
		{
			name: "keyboard indefinite hold",
			cfg:  Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Mode: KeyHold}, RunMode: RunModeTimer, TotalDuration: 9 * time.Second},
		},
	}

	for _, tc := range tests {
		if got := ActiveDuration(tc.cfg); got != tc.expected {
			t.Fatalf("%s: ActiveDuration=%v, want %v", tc.name, got, tc.expected)
		}
	}
}

func TestCountdownRemainingFloorsAtZero(t *testing.T) {
	start := time.Unix(1700000000, 0)
	cfg := Config{Action: ActionKeyboard, Keyboard: KeyboardConfig{Mode: KeyPress}, RunMode: RunModeTimer, TotalDuration: time.Second}
	cd := NewCountdown(cfg, start)

	if cd.Unlimited() {
		t.Fatalf("expected a limited countdown")
	}
	if got := cd.Remaining(start); got != time.Second {
		t.Fatalf("Remaining(start)=%v, want 1s", got)
	}
	if got := cd.Remaining(start.Add(600 * time.Millisecond)); got != 400*time.Millisecond {
		t.Fatalf("Remaining(+600ms)=%v, want 400ms", got)
	}
	if got := cd.Remaining(start.Add(5 * time.Second)); got != 0 {
		t.Fatalf("Remaining(+5s)=%v, want 0", got)
	}
	if cd.Expired(start.Add(999 * time.Millisecond)) {
		t.Fatalf("expected countdown still live at 999ms")
	}
	if !cd.Expired(start.Add(time.Second)) {
		t.Fatalf("expected countdown expired at 1s")
	}
}

func TestUnlimitedCountdownNeverExpires(t *testing.T) {
	cd := NewCountdown(Config{}, time.Unix(1700000000, 0))

	if !cd.Unlimited() {
		t.Fatalf("expected an unlimited countdown for the zero config")
	}
	if cd.Expired(time.Unix(1700000000, 0).Add(time.Hour)) {
		t.Fatalf("unlimited countdown must not expire")
	}
	if got := cd.Remaining(time.Unix(1700000000, 0).Add(time.Hour)); got != 0 {
		t.Fatalf("Remaining on unlimited countdown = %v, want 0", got)
	}
}
