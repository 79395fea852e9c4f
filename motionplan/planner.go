// Package motionplan plans the stem's next safe step toward its commanded target.
package motionplan

import (
	"math"

	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/referenceframe"
	"github.com/igknighters/stemsolver/spatialmath"
	"github.com/igknighters/stemsolver/utils"
)

// asinTolerance is how far past ±1 an asin argument may drift from rounding before it is treated
// as out of domain instead of clamped.
const asinTolerance = 1e-9

// Planner holds the stem's target and produces one corrected intermediate state per tick.
//
// A Planner is not safe for concurrent use; callers must serialize PlanStep, RequestTransition and
// SetDimensions.
type Planner struct {
	logger     logging.Logger
	classifier *Classifier
	dims       referenceframe.Dimensions
	target     referenceframe.StemState
}

// NewPlanner returns a planner whose target starts at the mechanism's current state.
func NewPlanner(
	current referenceframe.StemState,
	dims referenceframe.Dimensions,
	evaluator referenceframe.Evaluator,
	logger logging.Logger,
) *Planner {
	return &Planner{
		logger:     logger,
		classifier: NewClassifier(evaluator),
		dims:       dims,
		target:     current,
	}
}

// SetDimensions replaces the dimensions used for every following classification.
func (p *Planner) SetDimensions(dims referenceframe.Dimensions) {
	p.dims = dims
}

// Dimensions returns the dimensions most recently set.
func (p *Planner) Dimensions() referenceframe.Dimensions {
	return p.dims
}

// Target returns the most recently accepted target.
func (p *Planner) Target() referenceframe.StemState {
	return p.target
}

// Classify returns the constraints the state violates under the current dimensions.
func (p *Planner) Classify(state referenceframe.StemState) InvalidationReason {
	return p.classifier.Classify(state, p.dims)
}

// Inspect is Classify with every intermediate result.
func (p *Planner) Inspect(state referenceframe.StemState) Inspection {
	return p.classifier.Inspect(state, p.dims)
}

// RequestTransition makes candidate the new target if it is a valid state. Otherwise the request
// is dropped without error; callers that need confirmation should check Target afterwards.
func (p *Planner) RequestTransition(candidate referenceframe.StemState) {
	if err := candidate.Validate(); err != nil {
		p.logger.Debugw("dropping malformed transition request", "state", candidate, "error", err)
		return
	}
	if reason := p.Classify(candidate); !reason.Valid() {
		p.logger.Debugw("dropping unsafe transition request", "state", candidate, "reason", reason)
		return
	}
	p.target = candidate
	p.logger.Debugw("accepted transition request", "target", candidate)
}

// PlanStep returns the next state to command given the mechanism's current state.
//
// Each axis whose move to the target is valid on its own jumps to the target; the others hold.
// When the pivot is blocked it is backed off instead of held: away from the drive base by the
// blade's penetration depth, or, with the telescope, back inside the allowed bounds. The drive base
// correction uses the dimensions' stem length as the telescope leg, so SetDimensions must have been
// called with the mechanism's current pose. The wrist is never corrected. The result is a best
// effort and may itself be invalid, but it is always finite.
func (p *Planner) PlanStep(current referenceframe.StemState) referenceframe.StemState {
	target := p.target

	pivotCandidate := current.WithPivot(target.PivotDegrees)
	pivotReason := p.Classify(pivotCandidate)
	wristReason := p.Classify(current.WithWrist(target.WristDegrees))
	telescopeReason := p.Classify(current.WithTelescope(target.TelescopeLength))

	next := current
	if pivotReason.Valid() {
		next.PivotDegrees = target.PivotDegrees
	}
	if wristReason.Valid() {
		next.WristDegrees = target.WristDegrees
	}
	if telescopeReason.Valid() {
		next.TelescopeLength = target.TelescopeLength
	}

	if !pivotReason.Valid() {
		c, err := p.correctPivot(pivotCandidate, pivotReason)
		if err != nil {
			p.logger.Warnw("pivot correction failed, holding pivot",
				"reason", pivotReason, "candidate", pivotCandidate, "error", err)
		} else {
			next.PivotDegrees = c.pivotDegrees
			if c.setsTelescope {
				next.TelescopeLength = c.telescopeLength
			}
		}
	}

	if !next.IsFinite() {
		p.logger.Errorw("planned a non-finite state, holding current state", "planned", next, "current", current)
		return current
	}

	p.logger.Debugw("planned step",
		"current", current,
		"next", next,
		"pivot", pivotReason,
		"wrist", wristReason,
		"telescope", telescopeReason,
	)
	return next
}

// pivotCorrection is where a blocked pivot move should stop instead. Only the bounds correction
// moves the telescope; a drive base correction leaves it to the telescope's own move.
type pivotCorrection struct {
	pivotDegrees    float64
	telescopeLength float64
	setsTelescope   bool
}

// correctPivot backs an invalid pivot-only move off its constraint.
func (p *Planner) correctPivot(invalid referenceframe.StemState, reason InvalidationReason) (pivotCorrection, error) {
	pts := p.classifier.Points(invalid, p.dims)

	if reason.DriveBaseViolated() {
		// Raise the telescope's vertical leg by the blade's penetration depth and solve the right
		// triangle for the pivot. This assumes the penetration maps linearly onto the leg.
		approach := math.Min(pts.UmbrellaTopRight.Y, pts.UmbrellaBottomRight.Y)
		gap := math.Abs(approach - p.dims.DriveBase.Top())
		leg := p.dims.StemLength
		opposite := leg*math.Sin(invalid.PivotRadians()) + gap

		pivot, err := asin(opposite / leg)
		if err != nil {
			return pivotCorrection{}, err
		}
		return pivotCorrection{pivotDegrees: utils.RadToDeg(pivot)}, nil
	}

	// Walls: pull the wrist axle back by however far the blade's bounding box overflows, then
	// re-aim and re-extend the telescope at the moved axle.
	overflow := p.dims.AllowedBounds.Overflow(pts.UmbrellaBounds)
	axle := pts.WristAxle.Add(overflow.Correction())
	delta := axle.Sub(p.dims.TelescopeOrigin)
	length := spatialmath.Distance(p.dims.TelescopeOrigin, axle)
	if length == 0 {
		return pivotCorrection{}, spatialmath.NewCoincidentPointsError(axle)
	}

	var pivot float64
	if delta.X >= 0 {
		var err error
		if pivot, err = asin(delta.Y / length); err != nil {
			return pivotCorrection{}, err
		}
	} else {
		// asin only covers the right half plane.
		pivot = math.Atan2(delta.Y, delta.X)
	}
	return pivotCorrection{
		pivotDegrees:    utils.RadToDeg(pivot),
		telescopeLength: length,
		setsTelescope:   true,
	}, nil
}

// asin is math.Asin that clamps rounding error at the edges of its domain and refuses anything
// further out.
func asin(ratio float64) (float64, error) {
	if math.IsNaN(ratio) || math.Abs(ratio) > 1+asinTolerance {
		return math.NaN(), NewOutOfDomainError("asin", ratio)
	}
	return math.Asin(utils.Clamp(ratio, -1, 1)), nil
}
