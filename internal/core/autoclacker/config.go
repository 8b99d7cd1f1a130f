package autoclacker

import (
	"fmt"
	"strings"
	"time"
)

type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeRestricted
)

type ActionType int

const (
	ActionMouse ActionType = iota
	ActionKeyboard
)

type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

type ClickType int

const (
	ClickSingle ClickType = iota
	ClickDouble
)

type MouseMode int

const (
	MouseClick MouseMode = iota
	MouseHold
)

type ClickMode int

const (
	ClickModeConstant ClickMode = iota
	ClickModeDuration
)

type HoldMode int

const (
	HoldModeConstant HoldMode = iota
	HoldModeDuration
)

type HoldStyle int

const (
	HoldStandard HoldStyle = iota
	HoldPhysical
	HoldRapidFire
)

type KeyboardMode int

const (
	KeyPress KeyboardMode = iota
	KeyHold
)

type RunMode int

const (
	RunModeConstant RunMode = iota
	RunModeTimer
)

type Key string

const DefaultKey Key = "space"

const MinInterval = 100 * time.Millisecond

type MouseConfig struct {
	Button        MouseButton
	ClickType     ClickType
	Mode          MouseMode
	ClickMode     ClickMode
	ClickDuration time.Duration
	HoldMode      HoldMode
	HoldDuration  time.Duration
	HoldStyle     HoldStyle
}

type KeyboardConfig struct {
	Key          Key
	Mode         KeyboardMode
	HoldDuration time.Duration
	HoldStyle    HoldStyle
}

type Config struct {
	Scope         Scope
	TargetApp     string
	Action        ActionType
	Mouse         MouseConfig
	Keyboard      KeyboardConfig
	Interval      time.Duration
	RunMode       RunMode
	TotalDuration time.Duration
}

func (c *Config) Normalize() {
	if c.Scope != ScopeRestricted {
		c.Scope = ScopeGlobal
	}
	if c.Action != ActionKeyboard {
		c.Action = ActionMouse
	}
	c.TargetApp = strings.TrimSpace(c.TargetApp)

	m := &c.Mouse
	if m.Button != ButtonRight && m.Button != ButtonMiddle {
		m.Button = ButtonLeft
	}
	if m.ClickType != ClickDouble {
		m.ClickType = ClickSingle
	}
	if m.Mode != MouseHold {
		m.Mode = MouseClick
	}
	if m.ClickMode != ClickModeDuration {
		m.ClickMode = ClickModeConstant
	}
	if m.HoldMode != HoldModeDuration {
		m.HoldMode = HoldModeConstant
	}
	if m.HoldStyle != HoldPhysical && m.HoldStyle != HoldRapidFire {
		m.HoldStyle = HoldStandard
	}
	if m.ClickDuration < 0 {
		m.ClickDuration = 0
	}
	if m.HoldDuration <= 0 {
		m.HoldDuration = time.Second
	}

	k := &c.Keyboard
	if k.Key == "" {
		k.Key = DefaultKey
	}
	if k.Mode != KeyHold {
		k.Mode = KeyPress
	}
	if k.HoldStyle != HoldPhysical && k.HoldStyle != HoldRapidFire {
		k.HoldStyle = HoldStandard
	}
	if k.HoldDuration < 0 {
		k.HoldDuration = 0
	}

	if c.Interval < 0 {
		c.Interval = 0
	}
	if c.RunMode != RunModeTimer {
		c.RunMode = RunModeConstant
	}
	if c.TotalDuration < 0 {
		c.TotalDuration = 0
	}
}

func (s Scope) String() string {
	if s == ScopeRestricted {
		return "restricted"
	}
	return "global"
}

func (a ActionType) String() string {
	if a == ActionKeyboard {
		return "keyboard"
	}
	return "mouse"
}

func (b MouseButton) String() string {
	switch b {
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "left"
	}
}

func (c ClickType) String() string {
	if c == ClickDouble {
		return "double"
	}
	return "single"
}

func (m MouseMode) String() string {
	if m == MouseHold {
		return "hold"
	}
	return "click"
}

func (m ClickMode) String() string {
	if m == ClickModeDuration {
		return "duration"
	}
	return "constant"
}

func (m HoldMode) String() string {
	if m == HoldModeDuration {
		return "duration"
	}
	return "constant"
}

func (h HoldStyle) String() string {
	switch h {
	case HoldPhysical:
		return "physical"
	case HoldRapidFire:
		return "rapidfire"
	default:
		return "standard"
	}
}

func (m KeyboardMode) String() string {
	if m == KeyHold {
		return "hold"
	}
	return "press"
}

func (m RunMode) String() string {
	if m == RunModeTimer {
		return "timer"
	}
	return "constant"
}

func ParseScope(raw string) (Scope, error) {
	switch normalizeToken(raw) {
	case "", "global":
		return ScopeGlobal, nil
	case "restricted":
		return ScopeRestricted, nil
	}
	return ScopeGlobal, fmt.Errorf("invalid scope %q (expected global|restricted)", raw)
}

func ParseActionType(raw string) (ActionType, error) {
	switch normalizeToken(raw) {
	case "", "mouse":
		return ActionMouse, nil
	case "keyboard":
		return ActionKeyboard, nil
	}
	return ActionMouse, fmt.Errorf("invalid action %q (expected mouse|keyboard)", raw)
}

func ParseMouseButton(raw string) (MouseButton, error) {
	switch normalizeToken(raw) {
	case "", "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	return ButtonLeft, fmt.Errorf("invalid mouse button %q (expected left|right|middle)", raw)
}

func ParseClickType(raw string) (ClickType, error) {
	switch normalizeToken(raw) {
	case "", "single":
		return ClickSingle, nil
	case "double":
		return ClickDouble, nil
	}
	return ClickSingle, fmt.Errorf("invalid click type %q (expected single|double)", raw)
}

func ParseMouseMode(raw string) (MouseMode, error) {
	switch normalizeToken(raw) {
	case "", "click":
		return MouseClick, nil
	case "hold":
		return MouseHold, nil
	}
	return MouseClick, fmt.Errorf("invalid mouse mode %q (expected click|hold)", raw)
}

func ParseClickMode(raw string) (ClickMode, error) {
	switch normalizeToken(raw) {
	case "", "constant":
		return ClickModeConstant, nil
	case "duration":
		return ClickModeDuration, nil
	}
	return ClickModeConstant, fmt.Errorf("invalid click mode %q (expected constant|duration)", raw)
}

func ParseHoldMode(raw string) (HoldMode, error) {
	switch normalizeToken(raw) {
	case "", "constant":
		return HoldModeConstant, nil
	case "duration":
		return HoldModeDuration, nil
	}
	return HoldModeConstant, fmt.Errorf("invalid hold mode %q (expected constant|duration)", raw)
}

func ParseHoldStyle(raw string) (HoldStyle, error) {
	switch normalizeToken(raw) {
	case "", "standard":
		return HoldStandard, nil
	case "physical":
		return HoldPhysical, nil
	case "rapidfire", "rapid-fire", "rapid_fire":
		return HoldRapidFire, nil
	}
	return HoldStandard, fmt.Errorf("invalid hold style %q (expected standard|physical|rapidfire)", raw)
}

func ParseKeyboardMode(raw string) (KeyboardMode, error) {
	switch normalizeToken(raw) {
	case "", "press":
		return KeyPress, nil
	case "hold":
		return KeyHold, nil
	}
	return KeyPress, fmt.Errorf("invalid keyboard mode %q (expected press|hold)", raw)
}

func ParseRunMode(raw string) (RunMode, error) {
	switch normalizeToken(raw) {
	case "", "constant":
		return RunModeConstant, nil
	case "timer":
		return RunModeTimer, nil
	}
	return RunModeConstant, fmt.Errorf("invalid run mode %q (expected constant|timer)", raw)
}

func normalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
