package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/igknighters/stemsolver/components/stem"
	// register the fake stem model.
	_ "github.com/igknighters/stemsolver/components/stem/fake"
	"github.com/igknighters/stemsolver/config"
	"github.com/igknighters/stemsolver/control"
	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/referenceframe"
)

// simulation is everything built from one config file.
type simulation struct {
	cfg        *config.Config
	logger     logging.Logger
	logCloser  io.Closer
	stem       stem.Stem
	controller *control.Controller
}

func newSimulation(c *cli.Context) (*simulation, error) {
	ctx := c.Context
	// config problems are reported before the configured logger exists
	cfg, err := config.Read(ctx, c.String(configFlag), logging.NewBlankLogger("stemsim"))
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := cfg.Logging.NewLogger("stemsim")
	if err != nil {
		return nil, err
	}
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
	}
	logging.ReplaceGlobal(logger)

	s, err := stem.New(ctx, cfg.Mechanism.Model, cfg.Mechanism.Attributes, logger.Sublogger("stem"))
	if err != nil {
		return nil, multierr.Combine(err, logCloser.Close())
	}
	controller, err := control.NewController(ctx, s, referenceframe.StemModel{}, logger.Sublogger("control"))
	if err != nil {
		return nil, multierr.Combine(err, s.Close(ctx), logCloser.Close())
	}
	sim := &simulation{cfg: cfg, logger: logger, logCloser: logCloser, stem: s, controller: controller}
	if cfg.Target != nil {
		sim.requestTarget(*cfg.Target)
	}
	if target, ok := targetFromFlags(c, sim.controller.Target()); ok {
		sim.requestTarget(target)
	}
	return sim, nil
}

// targetFromFlags overrides the axes of base given on the command line.
func targetFromFlags(c *cli.Context, base referenceframe.StemState) (referenceframe.StemState, bool) {
	target := base
	set := false
	if c.IsSet(pivotFlag) {
		target.PivotDegrees = c.Float64(pivotFlag)
		set = true
	}
	if c.IsSet(wristFlag) {
		target.WristDegrees = c.Float64(wristFlag)
		set = true
	}
	if c.IsSet(telescopeFlag) {
		target.TelescopeLength = c.Float64(telescopeFlag)
		set = true
	}
	return target, set
}

func (sim *simulation) requestTarget(target referenceframe.StemState) {
	sim.controller.RequestTransition(target)
	if sim.controller.Target() != target {
		sim.logger.Warnw("target rejected, keeping previous target",
			"requested", target,
			"reason", sim.controller.Inspect(target).Reason,
			"target", sim.controller.Target())
	}
}

func (sim *simulation) close(ctx context.Context) error {
	return multierr.Combine(sim.stem.Close(ctx), sim.logger.Sync(), sim.logCloser.Close())
}

func (sim *simulation) appendRow(ctx context.Context, t table.Writer, tick int) error {
	state, err := sim.stem.CurrentState(ctx)
	if err != nil {
		return err
	}
	t.AppendRow(table.Row{
		tick,
		fmt.Sprintf("%.3f", state.PivotDegrees),
		fmt.Sprintf("%.3f", state.WristDegrees),
		fmt.Sprintf("%.3f", state.TelescopeLength),
		sim.controller.Inspect(state).Reason,
	})
	return nil
}

// StepAction plans a fixed number of ticks synchronously and prints a table of the states.
func StepAction(c *cli.Context) (err error) {
	ticks := c.Int(ticksFlag)
	if ticks < 0 {
		return errors.Errorf("--%s must not be negative", ticksFlag)
	}
	sim, err := newSimulation(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, sim.close(c.Context))
	}()

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Tick", "Pivot", "Wrist", "Telescope", "Reason"})
	if err := sim.appendRow(c.Context, t, 0); err != nil {
		return err
	}
	for i := 1; i <= ticks; i++ {
		if err := sim.controller.Tick(c.Context); err != nil {
			return err
		}
		if err := sim.appendRow(c.Context, t, i); err != nil {
			return err
		}
	}
	printf(c.App.Writer, "target: %v", sim.controller.Target())
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// countingTicker stops delivering ticks after limit and closes done. A limit of 0 never stops.
type countingTicker struct {
	control.Ticker
	limit int

	mu    sync.Mutex
	count int
	done  chan struct{}
}

func (ct *countingTicker) Tick(ctx context.Context) error {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if ct.limit > 0 && ct.count >= ct.limit {
		return nil
	}
	err := ct.Ticker.Tick(ctx)
	ct.count++
	if ct.limit > 0 && ct.count == ct.limit {
		close(ct.done)
	}
	return err
}

// RunAction runs the control loop until interrupted or the tick limit is reached. Target, logging
// and frequency changes in the config file are applied while running.
func RunAction(c *cli.Context) (err error) {
	ticks := c.Int(ticksFlag)
	if ticks < 0 {
		return errors.Errorf("--%s must not be negative", ticksFlag)
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := newSimulation(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, sim.close(context.Background()))
	}()

	watcher, err := config.NewWatcher(ctx, c.String(configFlag), sim.logger.Sublogger("config"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, watcher.Close())
	}()

	ticker := &countingTicker{Ticker: sim.controller, limit: ticks, done: make(chan struct{})}
	loopCfg := sim.cfg.LoopConfig()
	loop, err := control.NewLoop(sim.logger.Sublogger("loop"), loopCfg, ticker, clock.New())
	if err != nil {
		return err
	}
	if err := loop.Start(); err != nil {
		return err
	}
	defer func() {
		loop.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			sim.logger.Info("interrupted, stopping")
			return sim.printSummary(c)
		case <-ticker.done:
			return sim.printSummary(c)
		case cfg := <-watcher.Config():
			sim.logger.Infow("config changed", "path", cfg.ConfigFilePath)
			if err := cfg.Logging.Apply(sim.logger); err != nil {
				sim.logger.Errorw("cannot apply logging config", "error", err)
			}
			if cfg.Target != nil {
				sim.requestTarget(*cfg.Target)
			}
			if cfg.Mechanism.Model != sim.cfg.Mechanism.Model {
				sim.logger.Warn("mechanism changes require a restart")
			}
			if newLoopCfg := cfg.LoopConfig(); newLoopCfg != loopCfg {
				newLoop, err := control.NewLoop(sim.logger.Sublogger("loop"), newLoopCfg, ticker, clock.New())
				if err != nil {
					return err
				}
				loop.Stop()
				loop = newLoop
				if err := loop.Start(); err != nil {
					return err
				}
				loopCfg = newLoopCfg
			}
		}
	}
}

func (sim *simulation) printSummary(c *cli.Context) error {
	state, err := sim.stem.CurrentState(context.Background())
	if err != nil {
		return err
	}
	printf(c.App.Writer, "ticks: %d", sim.controller.TickCount())
	printf(c.App.Writer, "state: %v (%v)", state, sim.controller.Inspect(state).Reason)
	printf(c.App.Writer, "target: %v", sim.controller.Target())
	return nil
}

// printf prints a message with a newline.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
