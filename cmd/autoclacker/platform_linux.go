//go:build linux

package main

import (
	"os"
	"strings"
)

func permissionHint() string {
	if !sessionIsWayland() {
		return ""
	}
	return "Wayland session detected: synthetic input may not reach other applications. Run under X11 (or set XDG_SESSION_TYPE=x11) for reliable injection."
}

func sessionIsWayland() bool {
	session := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if session == "wayland" {
		return true
	}
	if session == "x11" {
		return false
	}
	return strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != ""
}
