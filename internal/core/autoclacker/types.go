package autoclacker

import "errors"

var ErrTargetNotFound = errors.New("target application not found")

type Window struct {
	PID   int
	Title string
}

type Synthesizer interface {
	PressMouse(button MouseButton) error
	ReleaseMouse(button MouseButton) error
	PressKey(key Key) error
	ReleaseKey(key Key) error
}

type TargetResolver interface {
	Resolve(app string) (Window, error)
	Minimized(w Window) bool
	Focus(w Window) error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusRunning
	StatusError
)

// StatusFunc runs on the controller's goroutines and must not call back
// into the controller synchronously.
type StatusFunc func(text string, kind StatusKind)
