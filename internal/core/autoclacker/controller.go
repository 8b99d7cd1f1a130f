package autoclacker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const stopSettleDelay = 100 * time.Millisecond

const (
	statusTextRunning  = "Running"
	statusTextStopped  = "Stopped"
	statusTextFinished = "Finished"
	statusTextNoTarget = "Target not active"
)

var errTargetLost = errors.New("target window lost")

type Options struct {
	Config   Config
	Synth    Synthesizer
	Resolver TargetResolver
	Logger   Logger
	Status   StatusFunc
	Clock    Clock
}

type Controller struct {
	resolver TargetResolver
	logger   Logger
	status   StatusFunc
	clock    Clock
	strat    *strategy

	transitionMu sync.Mutex

	stateMu sync.Mutex
	cfg     Config
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	cd      Countdown
}

func New(opts Options) (*Controller, error) {
	if opts.Synth == nil {
		return nil, fmt.Errorf("synthesizer is nil")
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("target resolver is nil")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	status := opts.Status
	if status == nil {
		status = func(string, StatusKind) {}
	}
	return &Controller{
		resolver: opts.Resolver,
		logger:   opts.Logger,
		status:   status,
		clock:    clock,
		strat:    newStrategy(opts.Synth, clock, opts.Logger),
		cfg:      opts.Config,
	}, nil
}

func (c *Controller) Start() {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()
	c.stopAndDrain()
	c.startRun()
}

func (c *Controller) Stop() {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()
	c.stopAndDrain()
}

func (c *Controller) Toggle() {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()
	if c.IsRunning() {
		c.stopAndDrain()
		return
	}
	c.startRun()
}

func (c *Controller) IsRunning() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.running
}

func (c *Controller) SetConfig(cfg Config) {
	c.stateMu.Lock()
	c.cfg = cfg
	c.stateMu.Unlock()
}

func (c *Controller) Config() Config {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.cfg
}

func (c *Controller) Remaining() (time.Duration, bool) {
	c.stateMu.Lock()
	running, cd := c.running, c.cd
	c.stateMu.Unlock()
	if !running || cd.Unlimited() {
		return 0, false
	}
	return cd.Remaining(c.clock.Now()), true
}

func (c *Controller) startRun() {
	cfg := c.Config()
	cfg.Normalize()

	if cfg.Scope == ScopeRestricted {
		win, err := c.resolver.Resolve(cfg.TargetApp)
		if err != nil || c.resolver.Minimized(win) {
			c.logger.Info("Target not active, not starting", "target", cfg.TargetApp)
			c.status(statusTextNoTarget, StatusError)
			return
		}
		if err := c.resolver.Focus(win); err != nil {
			c.logger.Warn("Focusing target failed", "target", cfg.TargetApp, "error", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	cd := NewCountdown(cfg, c.clock.Now())

	c.stateMu.Lock()
	c.running = true
	c.cancel = cancel
	c.done = done
	c.cd = cd
	c.stateMu.Unlock()

	c.logger.Info("Run started", "action", cfg.Action.String(), "scope", cfg.Scope.String())
	c.status(statusTextRunning, StatusRunning)
	go c.loop(ctx, cd, done)
}

func (c *Controller) stopAndDrain() {
	c.stateMu.Lock()
	if !c.running {
		c.stateMu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.stateMu.Unlock()

	cancel()
	<-done
	c.strat.ReleaseHeld()
	_ = c.clock.Sleep(context.Background(), stopSettleDelay)

	if c.finalize() {
		c.logger.Info("Run stopped")
		c.status(statusTextStopped, StatusIdle)
	}
}

func (c *Controller) loop(ctx context.Context, cd Countdown, done chan struct{}) {
	defer close(done)

	var runErr error
	for {
		if ctx.Err() != nil {
			break
		}
		cycleStart := c.clock.Now()
		if cd.Expired(cycleStart) {
			break
		}

		cfg := c.Config()
		cfg.Normalize()

		if cfg.Scope == ScopeRestricted {
			win, err := c.resolver.Resolve(cfg.TargetApp)
			if err != nil || c.resolver.Minimized(win) {
				runErr = errTargetLost
				break
			}
			if err := c.resolver.Focus(win); err != nil {
				c.logger.Debug("Focus reassert failed", "target", cfg.TargetApp, "error", err)
			}
		}

		if err := c.runCycle(ctx, cfg, cd); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			runErr = err
			break
		}

		if cd.Expired(c.clock.Now()) {
			break
		}

		interval := cfg.Interval
		if interval < MinInterval {
			interval = MinInterval
		}
		if wait := interval - c.clock.Now().Sub(cycleStart); wait > 0 {
			if err := c.clock.Sleep(ctx, wait); err != nil {
				break
			}
		}
	}

	c.strat.ReleaseHeld()

	// On cancellation the stopping caller owns the final report. The
	// terminal report goes out before the run flips idle so a restart
	// cannot slot its own report in between.
	if ctx.Err() != nil {
		return
	}
	switch {
	case runErr == nil:
		c.logger.Info("Run finished")
		c.status(statusTextFinished, StatusIdle)
	case errors.Is(runErr, errTargetLost):
		c.logger.Info("Target not active, stopping")
		c.status(statusTextNoTarget, StatusError)
	default:
		c.logger.Error("Run failed", "error", runErr)
		c.status(runErr.Error(), StatusError)
	}
	c.finalize()
}

func (c *Controller) runCycle(ctx context.Context, cfg Config, cd Countdown) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle failed: %v", r)
		}
	}()
	return c.strat.Cycle(ctx, cfg, cd)
}

func (c *Controller) finalize() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if !c.running {
		return false
	}
	c.running = false
	c.cancel = nil
	c.done = nil
	c.cd = Countdown{}
	return true
}
