// Package referenceframe describes the stem's poses and the geometry they produce.
package referenceframe

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"github.com/igknighters/stemsolver/utils"
)

// MaxAngleDegrees bounds the pivot and wrist angles accepted by StemState.Validate. Angles are not
// wrapped, so a full turn either way is the largest meaningful command.
const MaxAngleDegrees = 360.

// StemState is one pose of the stem: the pivot angle, the wrist angle, and the telescope
// extension. It is used both for the mechanism's current pose and for commanded poses.
type StemState struct {
	PivotDegrees    float64 `json:"pivot_degrees"`
	WristDegrees    float64 `json:"wrist_degrees"`
	TelescopeLength float64 `json:"telescope_length"`
}

// NewStemState returns a new StemState.
func NewStemState(pivotDegrees, wristDegrees, telescopeLength float64) StemState {
	return StemState{
		PivotDegrees:    pivotDegrees,
		WristDegrees:    wristDegrees,
		TelescopeLength: telescopeLength,
	}
}

// WithPivot returns a copy of the state with the pivot replaced.
func (s StemState) WithPivot(degrees float64) StemState {
	s.PivotDegrees = degrees
	return s
}

// WithWrist returns a copy of the state with the wrist replaced.
func (s StemState) WithWrist(degrees float64) StemState {
	s.WristDegrees = degrees
	return s
}

// WithTelescope returns a copy of the state with the telescope length replaced.
func (s StemState) WithTelescope(length float64) StemState {
	s.TelescopeLength = length
	return s
}

// PivotRadians returns the pivot angle in radians.
func (s StemState) PivotRadians() float64 {
	return utils.DegToRad(s.PivotDegrees)
}

// WristRadians returns the wrist angle in radians.
func (s StemState) WristRadians() float64 {
	return utils.DegToRad(s.WristDegrees)
}

// IsFinite reports whether every field is a real number.
func (s StemState) IsFinite() bool {
	return utils.IsFinite(s.PivotDegrees, s.WristDegrees, s.TelescopeLength)
}

// AlmostEqual compares every field of two states within tol.
func (s StemState) AlmostEqual(other StemState, tol float64) bool {
	return floats.EqualApprox(s.floats(), other.floats(), tol)
}

// Validate checks that the state could be commanded: finite, a non-negative telescope, and angles
// within a full turn either way.
func (s StemState) Validate() error {
	var err error
	if !s.IsFinite() {
		return errors.Errorf("state %v has a non-finite component", s)
	}
	if s.TelescopeLength < 0 {
		err = multierr.Append(err, errors.Errorf("telescope length %.3f is negative", s.TelescopeLength))
	}
	if math.Abs(s.PivotDegrees) > MaxAngleDegrees {
		err = multierr.Append(err, errors.Errorf("pivot %.3f° exceeds ±%.0f°", s.PivotDegrees, MaxAngleDegrees))
	}
	if math.Abs(s.WristDegrees) > MaxAngleDegrees {
		err = multierr.Append(err, errors.Errorf("wrist %.3f° exceeds ±%.0f°", s.WristDegrees, MaxAngleDegrees))
	}
	return err
}

func (s StemState) floats() []float64 {
	return []float64{s.PivotDegrees, s.WristDegrees, s.TelescopeLength}
}

func (s StemState) String() string {
	return fmt.Sprintf("{pivot: %.3f°, wrist: %.3f°, telescope: %.3f}", s.PivotDegrees, s.WristDegrees, s.TelescopeLength)
}
