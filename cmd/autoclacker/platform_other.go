//go:build !linux && !darwin

package main

func permissionHint() string {
	return ""
}
