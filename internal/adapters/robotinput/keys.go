package robotinput

import (
	"fmt"
	"strings"

	"github.com/TrazynCache/AutoClacker/internal/core/autoclacker"
)

var keyNames = buildKeyNames()

var keySet = buildKeySet()

var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"spacebar": "space",
	"control":  "ctrl",
}

func buildKeyNames() []string {
	names := []string{"space", "enter", "esc", "tab", "backspace", "delete", "insert"}
	for c := 'a'; c <= 'z'; c++ {
		names = append(names, string(c))
	}
	for c := '0'; c <= '9'; c++ {
		names = append(names, string(c))
	}
	for i := 1; i <= 24; i++ {
		names = append(names, fmt.Sprintf("f%d", i))
	}
	names = append(names,
		"up", "down", "left", "right",
		"home", "end", "pageup", "pagedown",
		"shift", "ctrl", "alt", "cmd",
	)
	return names
}

func buildKeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(keyNames))
	for _, name := range keyNames {
		set[name] = struct{}{}
	}
	return set
}

func ParseKey(value string) (autoclacker.Key, error) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return autoclacker.DefaultKey, nil
	}
	if alias, ok := keyAliases[raw]; ok {
		raw = alias
	}
	if _, ok := keySet[raw]; !ok {
		return "", fmt.Errorf("unknown key %q: use names like space, a, f8 or enter", value)
	}
	return autoclacker.Key(raw), nil
}

func KeyNames() []string {
	out := make([]string, len(keyNames))
	copy(out, keyNames)
	return out
}
