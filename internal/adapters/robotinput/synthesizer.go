package robotinput

import (
	"github.com/go-vgo/robotgo"

	"github.com/TrazynCache/AutoClacker/internal/core/autoclacker"
)

type Synthesizer struct{}

func (Synthesizer) PressMouse(button autoclacker.MouseButton) error {
	return robotgo.Toggle(buttonToken(button), "down")
}

func (Synthesizer) ReleaseMouse(button autoclacker.MouseButton) error {
	return robotgo.Toggle(buttonToken(button), "up")
}

func (Synthesizer) PressKey(key autoclacker.Key) error {
	return robotgo.KeyToggle(string(key), "down")
}

func (Synthesizer) ReleaseKey(key autoclacker.Key) error {
	return robotgo.KeyToggle(string(key), "up")
}

func buttonToken(button autoclacker.MouseButton) string {
	switch button {
	case autoclacker.ButtonRight:
		return "right"
	case autoclacker.ButtonMiddle:
		return "center"
	default:
		return "left"
	}
}
