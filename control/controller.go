// Package control drives a stem toward its target one planned step per tick.
package control

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/igknighters/stemsolver/components/stem"
	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/motionplan"
	"github.com/igknighters/stemsolver/referenceframe"
)

// Ticker is anything that does one unit of work per loop period.
type Ticker interface {
	Tick(ctx context.Context) error
}

// Controller owns a planner and the stem it commands. It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	stem    stem.Stem
	planner *motionplan.Planner
	logger  logging.Logger
	ticks   int
}

// NewController reads the stem's current state and dimensions and returns a controller whose
// target is that state.
func NewController(
	ctx context.Context,
	s stem.Stem,
	evaluator referenceframe.Evaluator,
	logger logging.Logger,
) (*Controller, error) {
	current, err := s.CurrentState(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read initial stem state")
	}
	dims, err := s.Dimensions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read initial stem dimensions")
	}
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		stem:    s,
		planner: motionplan.NewPlanner(current, dims, evaluator, logger.Sublogger("planner")),
		logger:  logger,
	}, nil
}

// Tick plans one step from the stem's live state and commands it.
func (c *Controller) Tick(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.stem.CurrentState(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read stem state")
	}
	dims, err := c.stem.Dimensions(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read stem dimensions")
	}
	c.planner.SetDimensions(dims)

	next := c.planner.PlanStep(current)
	c.ticks++
	if err := c.stem.MoveToState(ctx, next); err != nil {
		return errors.Wrapf(err, "cannot move stem to %v", next)
	}
	return nil
}

// RequestTransition asks the planner to adopt a new target. Unsafe or malformed requests are
// ignored; compare Target afterwards to find out.
func (c *Controller) RequestTransition(candidate referenceframe.StemState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.planner.RequestTransition(candidate)
}

// Target returns the planner's current target.
func (c *Controller) Target() referenceframe.StemState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planner.Target()
}

// Inspect classifies a state against the dimensions seen on the last tick.
func (c *Controller) Inspect(state referenceframe.StemState) motionplan.Inspection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planner.Inspect(state)
}

// TickCount returns how many ticks have planned a step.
func (c *Controller) TickCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
