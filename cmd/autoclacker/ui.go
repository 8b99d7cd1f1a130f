package main

import (
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/TrazynCache/AutoClacker/internal/adapters/hotkeys"
	"github.com/TrazynCache/AutoClacker/internal/adapters/robotinput"
	"github.com/TrazynCache/AutoClacker/internal/core/autoclacker"
)

type clackerTheme struct {
	base fyne.Theme
}

func newClackerTheme() fyne.Theme {
	return &clackerTheme{base: theme.DarkTheme()}
}

func (t *clackerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x0e, G: 0x12, B: 0x18, A: 0xff}
	case theme.ColorNameHeaderBackground:
		return color.NRGBA{R: 0x13, G: 0x18, B: 0x20, A: 0xff}
	case theme.ColorNameButton:
		return color.NRGBA{R: 0x1c, G: 0x24, B: 0x30, A: 0xff}
	case theme.ColorNameDisabledButton:
		return color.NRGBA{R: 0x15, G: 0x1a, B: 0x22, A: 0xff}
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x12, G: 0x18, B: 0x22, A: 0xff}
	case theme.ColorNameInputBorder, theme.ColorNameSeparator:
		return color.NRGBA{R: 0x2a, G: 0x34, B: 0x44, A: 0xff}
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return color.NRGBA{R: 0x5a, G: 0xa9, B: 0xff, A: 0xff}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0x6f, G: 0xb5, B: 0xff, A: 0x66}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0x6f, G: 0xb5, B: 0xff, A: 0x22}
	case theme.ColorNamePressed:
		return color.NRGBA{R: 0x6f, G: 0xb5, B: 0xff, A: 0x40}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x5a, G: 0xa9, B: 0xff, A: 0x44}
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0xf0, G: 0xf3, B: 0xf8, A: 0xff}
	case theme.ColorNamePlaceHolder:
		return color.NRGBA{R: 0xa5, G: 0xb0, B: 0xc0, A: 0xff}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xff, G: 0x82, B: 0x82, A: 0xff}
	case theme.ColorNameWarning:
		return color.NRGBA{R: 0xff, G: 0x9f, B: 0x5a, A: 0xff}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x7f, G: 0xd4, B: 0xa8, A: 0xff}
	}
	return t.base.Color(name, variant)
}

func (t *clackerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *clackerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *clackerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 8
	case theme.SizeNameInnerPadding:
		return 8
	case theme.SizeNameInputRadius:
		return 8
	}
	return t.base.Size(name)
}

func titleToken(token string) string {
	if token == "" {
		return token
	}
	return strings.ToUpper(token[:1]) + token[1:]
}

func displayHoldStyle(style autoclacker.HoldStyle) string {
	if style == autoclacker.HoldRapidFire {
		return "Rapid-fire"
	}
	return titleToken(style.String())
}

func formatDurationEntry(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}

func parseDurationField(raw, field string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: use values like 500ms or 30s", field, raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0", field)
	}
	return d, nil
}

func hotkeyNames() []string {
	names := robotinput.KeyNames()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if hotkeys.Registerable(name) {
			out = append(out, name)
		}
	}
	return out
}

func runUI(baseCfg config) error {
	fApp := app.New()
	fApp.Settings().SetTheme(newClackerTheme())

	window := fApp.NewWindow("AutoClacker")
	window.Resize(fyne.NewSize(900, 760))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	clamp := func(v, min, max float64) float64 {
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	}

	settingsLoadWarning := ""
	core := baseCfg.core
	hotkeyName := baseCfg.hotkey

	stored, err := loadSettings()
	if err != nil {
		settingsLoadWarning = fmt.Sprintf("Failed to load saved settings: %v", err)
	} else if stored != nil {
		core = stored.toConfig()
		if value := strings.TrimSpace(stored.Hotkey); value != "" {
			if parsed, parseErr := robotinput.ParseKey(value); parseErr == nil && hotkeys.Registerable(string(parsed)) {
				hotkeyName = string(parsed)
			} else if settingsLoadWarning == "" {
				settingsLoadWarning = fmt.Sprintf("Saved hotkey is invalid (%s); using default.", value)
			}
		}
	}

	actionRadio := widget.NewRadioGroup([]string{"Mouse", "Keyboard"}, nil)
	actionRadio.Horizontal = true
	actionRadio.SetSelected(titleToken(core.Action.String()))

	buttonSelect := widget.NewSelect([]string{"Left", "Right", "Middle"}, nil)
	buttonSelect.SetSelected(titleToken(core.Mouse.Button.String()))

	clickTypeSelect := widget.NewSelect([]string{"Single", "Double"}, nil)
	clickTypeSelect.SetSelected(titleToken(core.Mouse.ClickType.String()))

	mouseModeRadio := widget.NewRadioGroup([]string{"Click", "Hold"}, nil)
	mouseModeRadio.Horizontal = true
	mouseModeRadio.SetSelected(titleToken(core.Mouse.Mode.String()))

	clickModeSelect := widget.NewSelect([]string{"Constant", "Duration"}, nil)
	clickModeSelect.SetSelected(titleToken(core.Mouse.ClickMode.String()))

	clickDurationEntry := widget.NewEntry()
	clickDurationEntry.SetPlaceHolder("e.g. 30s")
	clickDurationEntry.SetText(formatDurationEntry(core.Mouse.ClickDuration))

	holdModeSelect := widget.NewSelect([]string{"Constant", "Duration"}, nil)
	holdModeSelect.SetSelected(titleToken(core.Mouse.HoldMode.String()))

	holdDurationEntry := widget.NewEntry()
	holdDurationEntry.SetPlaceHolder("e.g. 1s")
	holdDurationEntry.SetText(formatDurationEntry(core.Mouse.HoldDuration))

	holdStyleSelect := widget.NewSelect([]string{"Standard", "Physical", "Rapid-fire"}, nil)
	holdStyleSelect.SetSelected(displayHoldStyle(core.Mouse.HoldStyle))

	keySelect := widget.NewSelect(robotinput.KeyNames(), nil)
	keySelect.SetSelected(string(core.Keyboard.Key))

	keyboardModeRadio := widget.NewRadioGroup([]string{"Press", "Hold"}, nil)
	keyboardModeRadio.Horizontal = true
	keyboardModeRadio.SetSelected(titleToken(core.Keyboard.Mode.String()))

	keyHoldEntry := widget.NewEntry()
	keyHoldEntry.SetPlaceHolder("empty holds until stopped")
	keyHoldEntry.SetText(formatDurationEntry(core.Keyboard.HoldDuration))

	keyStyleSelect := widget.NewSelect([]string{"Standard", "Physical", "Rapid-fire"}, nil)
	keyStyleSelect.SetSelected(displayHoldStyle(core.Keyboard.HoldStyle))

	scopeRadio := widget.NewRadioGroup([]string{"Global", "Restricted"}, nil)
	scopeRadio.Horizontal = true
	scopeRadio.SetSelected(titleToken(core.Scope.String()))

	targetEntry := widget.NewSelectEntry(nil)
	targetEntry.SetPlaceHolder("application name, e.g. notepad")
	targetEntry.SetText(core.TargetApp)

	refreshAppsBtn := widget.NewButton("Refresh", nil)
	refreshAppsBtn.Importance = widget.MediumImportance

	intervalSlider := widget.NewSlider(100, 2000)
	intervalSlider.Step = 0
	intervalSlider.SetValue(clamp(float64(core.Interval/time.Millisecond), 100, 2000))

	intervalValue := widget.NewLabel("")
	intervalValue.Alignment = fyne.TextAlignTrailing
	intervalValue.TextStyle = fyne.TextStyle{Bold: true}
	updateIntervalText := func() {
		intervalValue.SetText(fmt.Sprintf("%.0f ms", intervalSlider.Value))
	}
	updateIntervalText()

	runModeSelect := widget.NewSelect([]string{"Constant", "Timer"}, nil)
	runModeSelect.SetSelected(titleToken(core.RunMode.String()))

	totalDurationEntry := widget.NewEntry()
	totalDurationEntry.SetPlaceHolder("e.g. 2m")
	totalDurationEntry.SetText(formatDurationEntry(core.TotalDuration))

	hotkeySelect := widget.NewSelect(hotkeyNames(), nil)
	hotkeySelect.SetSelected(hotkeyName)

	errorText := canvas.NewText("", nil)
	errorText.Color = theme.Color(theme.ColorNameError)
	if settingsLoadWarning != "" {
		errorText.Text = settingsLoadWarning
	}

	statusText := canvas.NewText("Stopped", theme.Color(theme.ColorNameForeground))
	statusText.TextStyle = fyne.TextStyle{Bold: true}

	countdownText := widget.NewLabel("")
	countdownText.Alignment = fyne.TextAlignTrailing

	logGrid := widget.NewTextGrid()
	logGrid.SetText("")
	logScroll := container.NewVScroll(logGrid)
	logScroll.SetMinSize(fyne.NewSize(0, 150))

	const maxUILogLines = 50
	var logMu sync.Mutex
	logLines := make([]string, 0, maxUILogLines)
	debugLogs := debugLogsEnabled()
	appendLogLine := func(line string) {
		if !debugLogs {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return
		}

		logMu.Lock()
		logLines = append(logLines, line)
		if len(logLines) > maxUILogLines {
			logLines = logLines[len(logLines)-maxUILogLines:]
		}
		logText := strings.Join(logLines, "\n")
		logMu.Unlock()

		fyne.Do(func() {
			logGrid.SetText(logText)
			logScroll.ScrollToBottom()
		})
	}
	if settingsLoadWarning != "" {
		appendLogLine("WARNING " + settingsLoadWarning)
	}

	startStopBtn := widget.NewButton("Start", nil)
	startStopBtn.Importance = widget.HighImportance

	logger := newSlogLogger(baseCfg.logLevel, appendLogLine)

	onStatus := func(text string, kind autoclacker.StatusKind) {
		fyne.Do(func() {
			statusText.Text = text
			switch kind {
			case autoclacker.StatusRunning:
				statusText.Color = theme.Color(theme.ColorNameSuccess)
			case autoclacker.StatusError:
				statusText.Color = theme.Color(theme.ColorNameError)
			default:
				statusText.Color = theme.Color(theme.ColorNameForeground)
			}
			statusText.Refresh()
		})
	}

	ctrl, err := autoclacker.New(autoclacker.Options{
		Config:   core,
		Synth:    robotinput.Synthesizer{},
		Resolver: robotinput.Resolver{},
		Logger:   logger,
		Status:   onStatus,
	})
	if err != nil {
		return err
	}

	var stateMu sync.Mutex
	currentHotkey := hotkeyName
	var listener *hotkeys.Listener

	showError := func(msg string) {
		errorText.Text = msg
		errorText.Refresh()
		if msg != "" {
			appendLogLine("ERROR " + msg)
		}
	}

	buildConfigFromUI := func() (autoclacker.Config, error) {
		var cfg autoclacker.Config
		var err error
		if cfg.Scope, err = autoclacker.ParseScope(scopeRadio.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		cfg.TargetApp = targetEntry.Text
		if cfg.Action, err = autoclacker.ParseActionType(actionRadio.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.Button, err = autoclacker.ParseMouseButton(buttonSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.ClickType, err = autoclacker.ParseClickType(clickTypeSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.Mode, err = autoclacker.ParseMouseMode(mouseModeRadio.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.ClickMode, err = autoclacker.ParseClickMode(clickModeSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.ClickDuration, err = parseDurationField(clickDurationEntry.Text, "click duration"); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.HoldMode, err = autoclacker.ParseHoldMode(holdModeSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.HoldDuration, err = parseDurationField(holdDurationEntry.Text, "hold duration"); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Mouse.HoldStyle, err = autoclacker.ParseHoldStyle(holdStyleSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Keyboard.Key, err = robotinput.ParseKey(keySelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Keyboard.Mode, err = autoclacker.ParseKeyboardMode(keyboardModeRadio.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Keyboard.HoldDuration, err = parseDurationField(keyHoldEntry.Text, "key hold duration"); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Keyboard.HoldStyle, err = autoclacker.ParseHoldStyle(keyStyleSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		cfg.Interval = time.Duration(intervalSlider.Value) * time.Millisecond
		if cfg.RunMode, err = autoclacker.ParseRunMode(runModeSelect.Selected); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.TotalDuration, err = parseDurationField(totalDurationEntry.Text, "total duration"); err != nil {
			return autoclacker.Config{}, err
		}
		if cfg.Scope == autoclacker.ScopeRestricted && strings.TrimSpace(cfg.TargetApp) == "" {
			return autoclacker.Config{}, fmt.Errorf("pick a target application for restricted scope")
		}
		cfg.Normalize()
		return cfg, nil
	}

	persistUISettings := func() {}

	applyConfig := func() {
		cfg, err := buildConfigFromUI()
		if err != nil {
			showError(err.Error())
			return
		}
		showError("")
		ctrl.SetConfig(cfg)
		persistUISettings()
	}

	persistUISettings = func() {
		stateMu.Lock()
		key := currentHotkey
		stateMu.Unlock()
		if err := saveSettings(settingsFromConfig(ctrl.Config(), key)); err != nil {
			showError(fmt.Sprintf("Failed to save settings: %v", err))
		}
	}

	swapHotkey := func(value string) {
		value = strings.ToLower(strings.TrimSpace(value))
		stateMu.Lock()
		current := currentHotkey
		old := listener
		stateMu.Unlock()
		if value == "" || value == current {
			return
		}
		next, err := hotkeys.NewListener(value, ctrl.Toggle)
		if err != nil {
			showError(err.Error())
			return
		}
		if old != nil {
			old.Close()
		}
		next.Start()
		stateMu.Lock()
		listener = next
		currentHotkey = value
		stateMu.Unlock()
		persistUISettings()
	}

	actionRadio.OnChanged = func(string) { applyConfig() }
	buttonSelect.OnChanged = func(string) { applyConfig() }
	clickTypeSelect.OnChanged = func(string) { applyConfig() }
	mouseModeRadio.OnChanged = func(string) { applyConfig() }
	clickModeSelect.OnChanged = func(string) { applyConfig() }
	holdModeSelect.OnChanged = func(string) { applyConfig() }
	holdStyleSelect.OnChanged = func(string) { applyConfig() }
	keySelect.OnChanged = func(string) { applyConfig() }
	keyboardModeRadio.OnChanged = func(string) { applyConfig() }
	keyStyleSelect.OnChanged = func(string) { applyConfig() }
	scopeRadio.OnChanged = func(string) { applyConfig() }
	runModeSelect.OnChanged = func(string) { applyConfig() }
	clickDurationEntry.OnSubmitted = func(string) { applyConfig() }
	holdDurationEntry.OnSubmitted = func(string) { applyConfig() }
	keyHoldEntry.OnSubmitted = func(string) { applyConfig() }
	totalDurationEntry.OnSubmitted = func(string) { applyConfig() }
	targetEntry.OnSubmitted = func(string) { applyConfig() }
	intervalSlider.OnChanged = func(float64) {
		updateIntervalText()
		applyConfig()
	}
	hotkeySelect.OnChanged = func(value string) { swapHotkey(value) }

	refreshAppsBtn.OnTapped = func() {
		go func() {
			names, err := robotinput.Processes()
			fyne.Do(func() {
				if err != nil {
					showError(fmt.Sprintf("Failed to list applications: %v", err))
					return
				}
				targetEntry.SetOptions(names)
			})
		}()
	}

	startStopBtn.OnTapped = func() {
		if ctrl.IsRunning() {
			go ctrl.Stop()
			return
		}
		cfg, err := buildConfigFromUI()
		if err != nil {
			showError(err.Error())
			return
		}
		showError("")
		ctrl.SetConfig(cfg)
		persistUISettings()
		go ctrl.Start()
	}

	stopCh := make(chan struct{})
	go func() {
		stateTicker := time.NewTicker(150 * time.Millisecond)
		defer stateTicker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-stateTicker.C:
				running := ctrl.IsRunning()
				left, limited := ctrl.Remaining()
				fyne.Do(func() {
					if running {
						startStopBtn.SetText("Stop")
					} else {
						startStopBtn.SetText("Start")
					}
					if running && limited {
						countdownText.SetText("Time left: " + left.Round(100*time.Millisecond).String())
					} else {
						countdownText.SetText("")
					}
				})
			}
		}
	}()

	initialListener, err := hotkeys.NewListener(hotkeyName, ctrl.Toggle)
	if err != nil {
		return err
	}
	initialListener.Start()
	stateMu.Lock()
	listener = initialListener
	stateMu.Unlock()

	if hint := permissionHint(); hint != "" {
		appendLogLine("WARNING " + hint)
		if errorText.Text == "" {
			errorText.Text = hint
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var closeOnce sync.Once
	cleanup := func() {
		closeOnce.Do(func() {
			close(stopCh)
			stateMu.Lock()
			l := listener
			listener = nil
			stateMu.Unlock()
			if l != nil {
				l.Close()
			}
			ctrl.Stop()
		})
	}

	requestQuit := func() {
		fyne.Do(func() {
			persistUISettings()
			cleanup()
			if currentApp := fyne.CurrentApp(); currentApp != nil {
				currentApp.Quit()
				return
			}
			window.SetCloseIntercept(nil)
			window.Close()
		})
	}

	go func() {
		<-sigCh
		requestQuit()
	}()

	// Some GUI backends deliver Ctrl+C as a raw ETX byte instead of SIGINT.
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && buf[0] == 3 {
				requestQuit()
				return
			}
		}
	}()

	window.SetCloseIntercept(func() {
		persistUISettings()
		cleanup()
		if currentApp := fyne.CurrentApp(); currentApp != nil {
			currentApp.Quit()
			return
		}
		window.SetCloseIntercept(nil)
		window.Close()
	})

	titleText := canvas.NewText("AUTOCLACKER", color.NRGBA{R: 0x6f, G: 0xb5, B: 0xff, A: 0xff})
	titleText.TextStyle = fyne.TextStyle{Bold: true}
	titleText.TextSize = 30

	accentLine := canvas.NewRectangle(color.NRGBA{R: 0x5a, G: 0xa9, B: 0xff, A: 0xff})
	accentLine.SetMinSize(fyne.NewSize(220, 3))

	newSliderControl := func(label string, value *widget.Label, slider *widget.Slider) fyne.CanvasObject {
		title := widget.NewLabel(label)
		title.TextStyle = fyne.TextStyle{Bold: true}
		head := container.NewBorder(nil, nil, title, value, nil)
		return container.NewVBox(head, slider)
	}

	generalControls := widget.NewForm(
		widget.NewFormItem("Action", actionRadio),
		widget.NewFormItem("Hotkey", hotkeySelect),
	)
	mouseControls := widget.NewForm(
		widget.NewFormItem("Button", buttonSelect),
		widget.NewFormItem("Click type", clickTypeSelect),
		widget.NewFormItem("Mode", mouseModeRadio),
		widget.NewFormItem("Click run", clickModeSelect),
		widget.NewFormItem("Click for", clickDurationEntry),
		widget.NewFormItem("Hold run", holdModeSelect),
		widget.NewFormItem("Hold for", holdDurationEntry),
		widget.NewFormItem("Hold style", holdStyleSelect),
	)
	keyboardControls := widget.NewForm(
		widget.NewFormItem("Key", keySelect),
		widget.NewFormItem("Mode", keyboardModeRadio),
		widget.NewFormItem("Hold for", keyHoldEntry),
		widget.NewFormItem("Hold style", keyStyleSelect),
	)
	scopeControls := container.NewVBox(
		scopeRadio,
		container.NewBorder(nil, nil, nil, refreshAppsBtn, targetEntry),
	)
	timingControls := container.NewVBox(
		newSliderControl("Interval", intervalValue, intervalSlider),
		widget.NewForm(
			widget.NewFormItem("Run mode", runModeSelect),
			widget.NewFormItem("Run for", totalDurationEntry),
		),
	)

	generalCard := widget.NewCard("General", "", generalControls)
	mouseCard := widget.NewCard("Mouse", "", mouseControls)
	keyboardCard := widget.NewCard("Keyboard", "", keyboardControls)
	scopeCard := widget.NewCard("Scope", "", scopeControls)
	timingCard := widget.NewCard("Timing", "", timingControls)

	actionRow := container.NewGridWithColumns(2, mouseCard, keyboardCard)
	setupRow := container.NewGridWithColumns(2, scopeCard, timingCard)
	statusRow := container.NewBorder(nil, nil, statusText, countdownText, nil)

	mainContent := container.NewVBox(
		titleText,
		accentLine,
		generalCard,
		actionRow,
		setupRow,
		statusRow,
		errorText,
		startStopBtn,
	)
	mainPanel := container.NewPadded(mainContent)

	var rootContent fyne.CanvasObject = mainPanel
	if debugLogs {
		logsCard := widget.NewCard("Logs", "", logScroll)
		split := container.NewVSplit(mainPanel, logsCard)
		split.SetOffset(0.72)
		rootContent = split
	}

	if baseCfg.start {
		go ctrl.Start()
	}

	window.SetContent(rootContent)
	window.ShowAndRun()
	cleanup()
	return nil
}
