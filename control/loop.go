package control

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/igknighters/stemsolver/logging"
)

// MaxFrequency is the fastest a loop may tick, in Hz.
const MaxFrequency = 200.

// LoopConfig configures a Loop.
type LoopConfig struct {
	Frequency float64 `json:"frequency_hz"`
}

// Validate ensures the frequency is usable.
func (cfg LoopConfig) Validate() error {
	if !(cfg.Frequency > 0) || cfg.Frequency > MaxFrequency {
		return errors.Errorf("loop frequency must be above 0 and at most %vHz, got %v", MaxFrequency, cfg.Frequency)
	}
	return nil
}

// Period is the time between ticks.
func (cfg LoopConfig) Period() time.Duration {
	return time.Duration(float64(time.Second) / cfg.Frequency)
}

// Loop calls a Ticker at a fixed frequency on a background goroutine.
type Loop struct {
	cfg    LoopConfig
	ticker Ticker
	clk    clock.Clock
	logger logging.Logger

	mu                      sync.Mutex
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
	running                 bool
}

// NewLoop returns a stopped loop. A nil clock means the wall clock.
func NewLoop(logger logging.Logger, cfg LoopConfig, ticker Ticker, clk clock.Clock) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ticker == nil {
		return nil, errors.New("loop needs something to tick")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Loop{cfg: cfg, ticker: ticker, clk: clk, logger: logger}, nil
}

// Start starts ticking. Starting a running loop is an error.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return errors.New("loop is already running")
	}
	dt := l.cfg.Period()
	l.logger.Infof("running loop at %1.4fHz (%v)", l.cfg.Frequency, dt)

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	tick := l.clk.Ticker(dt)
	waitCh := make(chan struct{})
	l.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(func() {
		defer tick.Stop()
		close(waitCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
			if err := l.ticker.Tick(ctx); err != nil && ctx.Err() == nil {
				l.logger.Warnw("tick failed", "error", err)
			}
		}
	}, l.activeBackgroundWorkers.Done)
	<-waitCh
	l.running = true
	return nil
}

// Stop stops the loop and waits for the tick in progress, if any. Stopping a stopped loop does
// nothing.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.logger.Debug("closing loop")
	l.cancel()
	l.activeBackgroundWorkers.Wait()
	l.running = false
}

// Running reports whether the loop has been started and not stopped.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Config returns the loop config.
func (l *Loop) Config() LoopConfig {
	return l.cfg
}
