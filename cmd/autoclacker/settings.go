package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TrazynCache/AutoClacker/internal/adapters/robotinput"
	"github.com/TrazynCache/AutoClacker/internal/core/autoclacker"
)

type appSettings struct {
	Scope             string `json:"scope"`
	TargetApp         string `json:"target_app"`
	Action            string `json:"action"`
	MouseButton       string `json:"mouse_button"`
	ClickType         string `json:"click_type"`
	MouseMode         string `json:"mouse_mode"`
	ClickMode         string `json:"click_mode"`
	ClickDurationMS   int64  `json:"click_duration_ms"`
	HoldMode          string `json:"hold_mode"`
	HoldDurationMS    int64  `json:"hold_duration_ms"`
	MouseHoldStyle    string `json:"mouse_hold_style"`
	Key               string `json:"key"`
	KeyboardMode      string `json:"keyboard_mode"`
	KeyHoldDurationMS int64  `json:"key_hold_duration_ms"`
	KeyHoldStyle      string `json:"key_hold_style"`
	IntervalMS        int64  `json:"interval_ms"`
	RunMode           string `json:"run_mode"`
	TotalDurationMS   int64  `json:"total_duration_ms"`
	Hotkey            string `json:"hotkey"`

	// Older releases stored hold behaviour as boolean pairs instead of a
	// style name. They are read for migration and never written back.
	LegacyPhysicalHold     *bool `json:"physical_hold,omitempty"`
	LegacyRapidFireHold    *bool `json:"rapid_fire_hold,omitempty"`
	LegacyKeyPhysicalHold  *bool `json:"key_physical_hold,omitempty"`
	LegacyKeyRapidFireHold *bool `json:"key_rapid_fire_hold,omitempty"`
}

func settingsPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".autoclacker-settings.json"
	}
	return filepath.Join(base, "autoclacker", "settings.json")
}

func loadSettings() (*appSettings, error) {
	return loadSettingsFile(settingsPath())
}

func loadSettingsFile(path string) (*appSettings, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s appSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

func saveSettings(s appSettings) error {
	return writeSettingsFile(settingsPath(), s)
}

func writeSettingsFile(path string, s appSettings) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *appSettings) toConfig() autoclacker.Config {
	var cfg autoclacker.Config
	cfg.Scope, _ = autoclacker.ParseScope(s.Scope)
	cfg.TargetApp = s.TargetApp
	cfg.Action, _ = autoclacker.ParseActionType(s.Action)
	cfg.Mouse.Button, _ = autoclacker.ParseMouseButton(s.MouseButton)
	cfg.Mouse.ClickType, _ = autoclacker.ParseClickType(s.ClickType)
	cfg.Mouse.Mode, _ = autoclacker.ParseMouseMode(s.MouseMode)
	cfg.Mouse.ClickMode, _ = autoclacker.ParseClickMode(s.ClickMode)
	cfg.Mouse.ClickDuration = time.Duration(s.ClickDurationMS) * time.Millisecond
	cfg.Mouse.HoldMode, _ = autoclacker.ParseHoldMode(s.HoldMode)
	cfg.Mouse.HoldDuration = time.Duration(s.HoldDurationMS) * time.Millisecond
	cfg.Mouse.HoldStyle = resolveHoldStyle(s.MouseHoldStyle, s.LegacyPhysicalHold, s.LegacyRapidFireHold)
	if key, err := robotinput.ParseKey(s.Key); err == nil {
		cfg.Keyboard.Key = key
	}
	cfg.Keyboard.Mode, _ = autoclacker.ParseKeyboardMode(s.KeyboardMode)
	cfg.Keyboard.HoldDuration = time.Duration(s.KeyHoldDurationMS) * time.Millisecond
	cfg.Keyboard.HoldStyle = resolveHoldStyle(s.KeyHoldStyle, s.LegacyKeyPhysicalHold, s.LegacyKeyRapidFireHold)
	cfg.Interval = time.Duration(s.IntervalMS) * time.Millisecond
	cfg.RunMode, _ = autoclacker.ParseRunMode(s.RunMode)
	cfg.TotalDuration = time.Duration(s.TotalDurationMS) * time.Millisecond
	cfg.Normalize()
	return cfg
}

func resolveHoldStyle(raw string, physical, rapidFire *bool) autoclacker.HoldStyle {
	if raw != "" {
		if style, err := autoclacker.ParseHoldStyle(raw); err == nil {
			return style
		}
	}
	if physical != nil && *physical {
		return autoclacker.HoldPhysical
	}
	if rapidFire != nil && *rapidFire {
		return autoclacker.HoldRapidFire
	}
	return autoclacker.HoldStandard
}

func settingsFromConfig(cfg autoclacker.Config, hotkey string) appSettings {
	return appSettings{
		Scope:             cfg.Scope.String(),
		TargetApp:         cfg.TargetApp,
		Action:            cfg.Action.String(),
		MouseButton:       cfg.Mouse.Button.String(),
		ClickType:         cfg.Mouse.ClickType.String(),
		MouseMode:         cfg.Mouse.Mode.String(),
		ClickMode:         cfg.Mouse.ClickMode.String(),
		ClickDurationMS:   cfg.Mouse.ClickDuration.Milliseconds(),
		HoldMode:          cfg.Mouse.HoldMode.String(),
		HoldDurationMS:    cfg.Mouse.HoldDuration.Milliseconds(),
		MouseHoldStyle:    cfg.Mouse.HoldStyle.String(),
		Key:               string(cfg.Keyboard.Key),
		KeyboardMode:      cfg.Keyboard.Mode.String(),
		KeyHoldDurationMS: cfg.Keyboard.HoldDuration.Milliseconds(),
		KeyHoldStyle:      cfg.Keyboard.HoldStyle.String(),
		IntervalMS:        cfg.Interval.Milliseconds(),
		RunMode:           cfg.RunMode.String(),
		TotalDurationMS:   cfg.TotalDuration.Milliseconds(),
		Hotkey:            hotkey,
	}
}
