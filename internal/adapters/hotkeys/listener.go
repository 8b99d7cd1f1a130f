package hotkeys

import (
	"fmt"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

const repeatWindow = 300 * time.Millisecond

// Registerable reports whether gohook can bind the key. Registering a
// name absent from hook.Keycode maps it to code 0, which never matches
// a real key press.
func Registerable(key string) bool {
	_, ok := hook.Keycode[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

type Listener struct {
	key      string
	onToggle func()

	mu       sync.Mutex
	lastFire time.Time
	started  bool
}

func NewListener(key string, onToggle func()) (*Listener, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("hotkey is empty")
	}
	if onToggle == nil {
		return nil, fmt.Errorf("toggle callback is nil")
	}
	if !Registerable(key) {
		return nil, fmt.Errorf("key %q cannot be a global hotkey: use names like f6, a or space", key)
	}
	return &Listener{key: key, onToggle: onToggle}, nil
}

func (l *Listener) Key() string {
	return l.key
}

func (l *Listener) Start() {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	hook.Register(hook.KeyDown, []string{l.key}, func(hook.Event) {
		l.fire()
	})
	go func() {
		events := hook.Start()
		<-hook.Process(events)
	}()
}

// The toggle runs on its own goroutine so a slow stop cannot stall the
// hook event pump; the repeat window swallows OS key auto-repeat.
func (l *Listener) fire() {
	l.mu.Lock()
	now := time.Now()
	if now.Sub(l.lastFire) < repeatWindow {
		l.mu.Unlock()
		return
	}
	l.lastFire = now
	l.mu.Unlock()

	go l.onToggle()
}

func (l *Listener) Close() {
	l.mu.Lock()
	started := l.started
	l.started = false
	l.mu.Unlock()
	if started {
		hook.End()
	}
}
