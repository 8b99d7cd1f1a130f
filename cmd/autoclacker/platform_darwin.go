//go:build darwin

package main

func permissionHint() string {
	return "macOS blocks synthetic input until this app is allowed under System Settings > Privacy & Security > Accessibility."
}
