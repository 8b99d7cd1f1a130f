package robotinput

import (
	"sort"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/TrazynCache/AutoClacker/internal/core/autoclacker"
)

const minimizedOffset = -32000

var systemProcesses = map[string]bool{
	"system":              true,
	"system idle process": true,
	"secure system":       true,
	"registry":            true,
	"memory compression":  true,
	"smss":                true,
	"csrss":               true,
	"wininit":             true,
	"winlogon":            true,
	"services":            true,
	"lsass":               true,
	"svchost":             true,
	"fontdrvhost":         true,
	"dwm":                 true,
	"conhost":             true,
	"runtimebroker":       true,
	"searchhost":          true,
	"shellexperiencehost": true,
	"audiodg":             true,
	"wmiprvse":            true,
	"taskhostw":           true,
	"sihost":              true,
	"ctfmon":              true,
	"systemd":             true,
	"kthreadd":            true,
	"dbus-daemon":         true,
}

type Resolver struct{}

func (Resolver) Resolve(app string) (autoclacker.Window, error) {
	name := normalizeAppName(app)
	if name == "" {
		return autoclacker.Window{}, autoclacker.ErrTargetNotFound
	}

	if ids, err := robotgo.FindIds(name); err == nil && len(ids) > 0 {
		return autoclacker.Window{PID: ids[0], Title: robotgo.GetTitle(ids[0])}, nil
	}

	processes, err := robotgo.Process()
	if err != nil {
		return autoclacker.Window{}, err
	}
	for _, proc := range processes {
		if normalizeAppName(proc.Name) == name {
			return autoclacker.Window{PID: proc.Pid, Title: proc.Name}, nil
		}
	}
	return autoclacker.Window{}, autoclacker.ErrTargetNotFound
}

func (Resolver) Minimized(w autoclacker.Window) bool {
	x, y, width, height := robotgo.GetBounds(w.PID)
	if width == 0 && height == 0 {
		return true
	}
	return x <= minimizedOffset && y <= minimizedOffset
}

func (Resolver) Focus(w autoclacker.Window) error {
	return robotgo.ActivePid(w.PID)
}

func Processes() ([]string, error) {
	processes, err := robotgo.Process()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(processes))
	names := make([]string, 0, len(processes))
	for _, proc := range processes {
		name := normalizeAppName(proc.Name)
		if name == "" || systemProcesses[name] {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func normalizeAppName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".exe")
}
