package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/TrazynCache/AutoClacker/internal/adapters/hotkeys"
	"github.com/TrazynCache/AutoClacker/internal/adapters/robotinput"
	"github.com/TrazynCache/AutoClacker/internal/core/autoclacker"
)

type config struct {
	core     autoclacker.Config
	hotkey   string
	start    bool
	listApps bool
	listKeys bool
	ui       bool
	logLevel slog.Level
}

type lineSinkWriter struct {
	mu   sync.Mutex
	buf  []byte
	sink func(string)
}

func (w *lineSinkWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r\n")
		w.buf = w.buf[i+1:]
		if line != "" {
			w.sink(line)
		}
	}
	return len(p), nil
}

func debugLogsEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("DEBUG")))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func newSlogLogger(level slog.Level, sink func(string)) *slog.Logger {
	var w io.Writer = os.Stderr
	if sink != nil {
		w = io.MultiWriter(os.Stderr, &lineSinkWriter{sink: sink})
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", raw)
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func parseConfig(args []string) (config, error) {
	fs := flag.NewFlagSet("autoclacker", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var cfg config
	scope := fs.String("scope", envOr("AUTOCLACKER_SCOPE", "global"), "automation scope: global or restricted")
	target := fs.String("target", envOr("AUTOCLACKER_TARGET", ""), "application name for restricted scope, e.g. notepad")
	action := fs.String("action", "mouse", "action type: mouse or keyboard")
	button := fs.String("button", "left", "mouse button: left, right or middle")
	clickType := fs.String("click-type", "single", "mouse click type: single or double")
	mouseMode := fs.String("mouse-mode", "click", "mouse mode: click or hold")
	clickMode := fs.String("click-mode", "constant", "click run mode: constant or duration")
	clickFor := fs.Duration("click-duration", 0, "how long a duration click run lasts, e.g. 30s")
	holdMode := fs.String("hold-mode", "constant", "mouse hold mode: constant or duration")
	holdFor := fs.Duration("hold-duration", time.Second, "how long each mouse hold lasts")
	holdStyle := fs.String("hold-style", "standard", "mouse hold style: standard, physical or rapidfire")
	key := fs.String("key", string(autoclacker.DefaultKey), "keyboard key to press, see --list-keys")
	keyboardMode := fs.String("keyboard-mode", "press", "keyboard mode: press or hold")
	keyHoldFor := fs.Duration("key-hold-duration", 0, "keyboard hold length, 0 holds until stopped")
	keyHoldStyle := fs.String("key-hold-style", "standard", "keyboard hold style: standard, physical or rapidfire")
	interval := fs.Duration("interval", autoclacker.MinInterval, "delay between action cycles, floored at 100ms")
	runMode := fs.String("run-mode", "constant", "run mode: constant or timer")
	totalFor := fs.Duration("total-duration", 0, "timer run length for keyboard press runs")
	hotkey := fs.String("hotkey", envOr("AUTOCLACKER_HOTKEY", "f6"), "global toggle hotkey, see --list-keys")
	logLevel := fs.String("log-level", envOr("AUTOCLACKER_LOG_LEVEL", "info"), "log level: debug, info, warning or error")
	fs.BoolVar(&cfg.start, "start", false, "start automating immediately instead of waiting for the hotkey")
	fs.BoolVar(&cfg.listApps, "list-apps", false, "print selectable application names and exit")
	fs.BoolVar(&cfg.listKeys, "list-keys", false, "print selectable key names and exit")
	fs.BoolVar(&cfg.ui, "ui", true, "run the graphical interface")
	noUI := fs.Bool("no-ui", false, "run headless, toggled by the hotkey")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if *noUI {
		cfg.ui = false
	}

	var err error
	if cfg.core.Scope, err = autoclacker.ParseScope(*scope); err != nil {
		return config{}, err
	}
	cfg.core.TargetApp = *target
	if cfg.core.Action, err = autoclacker.ParseActionType(*action); err != nil {
		return config{}, err
	}
	if cfg.core.Mouse.Button, err = autoclacker.ParseMouseButton(*button); err != nil {
		return config{}, err
	}
	if cfg.core.Mouse.ClickType, err = autoclacker.ParseClickType(*clickType); err != nil {
		return config{}, err
	}
	if cfg.core.Mouse.Mode, err = autoclacker.ParseMouseMode(*mouseMode); err != nil {
		return config{}, err
	}
	if cfg.core.Mouse.ClickMode, err = autoclacker.ParseClickMode(*clickMode); err != nil {
		return config{}, err
	}
	if cfg.core.Mouse.HoldMode, err = autoclacker.ParseHoldMode(*holdMode); err != nil {
		return config{}, err
	}
	if cfg.core.Mouse.HoldStyle, err = autoclacker.ParseHoldStyle(*holdStyle); err != nil {
		return config{}, err
	}
	if cfg.core.Keyboard.Key, err = robotinput.ParseKey(*key); err != nil {
		return config{}, err
	}
	if cfg.core.Keyboard.Mode, err = autoclacker.ParseKeyboardMode(*keyboardMode); err != nil {
		return config{}, err
	}
	if cfg.core.Keyboard.HoldStyle, err = autoclacker.ParseHoldStyle(*keyHoldStyle); err != nil {
		return config{}, err
	}
	if cfg.core.RunMode, err = autoclacker.ParseRunMode(*runMode); err != nil {
		return config{}, err
	}
	if *clickFor < 0 {
		return config{}, fmt.Errorf("--click-duration must be >= 0")
	}
	if *holdFor < 0 {
		return config{}, fmt.Errorf("--hold-duration must be >= 0")
	}
	if *keyHoldFor < 0 {
		return config{}, fmt.Errorf("--key-hold-duration must be >= 0")
	}
	if *interval < 0 {
		return config{}, fmt.Errorf("--interval must be >= 0")
	}
	if *totalFor < 0 {
		return config{}, fmt.Errorf("--total-duration must be >= 0")
	}
	cfg.core.Mouse.ClickDuration = *clickFor
	cfg.core.Mouse.HoldDuration = *holdFor
	cfg.core.Keyboard.HoldDuration = *keyHoldFor
	cfg.core.Interval = *interval
	cfg.core.TotalDuration = *totalFor
	if cfg.core.Scope == autoclacker.ScopeRestricted && strings.TrimSpace(cfg.core.TargetApp) == "" {
		return config{}, fmt.Errorf("--target is required when --scope is restricted")
	}

	hotkeyName, err := robotinput.ParseKey(*hotkey)
	if err != nil {
		return config{}, err
	}
	if !hotkeys.Registerable(string(hotkeyName)) {
		return config{}, fmt.Errorf("--hotkey %q cannot be a global hotkey: use names like f6, a or space", *hotkey)
	}
	cfg.hotkey = string(hotkeyName)

	if cfg.logLevel, err = parseLogLevel(*logLevel); err != nil {
		return config{}, err
	}

	cfg.core.Normalize()
	return cfg, nil
}

func run(args []string, stderr io.Writer) int {
	_ = godotenv.Load()

	cfg, err := parseConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.listKeys {
		for _, name := range robotinput.KeyNames() {
			if hotkeys.Registerable(name) {
				fmt.Println(name)
			} else {
				fmt.Println(name + "  (action key only)")
			}
		}
		return 0
	}
	if cfg.listApps {
		names, err := robotinput.Processes()
		if err != nil {
			fmt.Fprintf(stderr, "list applications: %v\n", err)
			return 1
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0
	}

	if cfg.ui {
		if err := runUI(cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	return runHeadless(cfg, stderr)
}

func runHeadless(cfg config, stderr io.Writer) int {
	logger := newSlogLogger(cfg.logLevel, nil)

	ctrl, err := autoclacker.New(autoclacker.Options{
		Config:   cfg.core,
		Synth:    robotinput.Synthesizer{},
		Resolver: robotinput.Resolver{},
		Logger:   logger,
		Status: func(text string, _ autoclacker.StatusKind) {
			fmt.Println(text)
		},
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	listener, err := hotkeys.NewListener(cfg.hotkey, ctrl.Toggle)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	listener.Start()
	defer listener.Close()

	if hint := permissionHint(); hint != "" {
		fmt.Fprintln(stderr, hint)
	}
	fmt.Printf("Press %s to toggle. Ctrl+C exits.\n", cfg.hotkey)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.start {
		ctrl.Start()
	}

	<-ctx.Done()
	ctrl.Stop()
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
