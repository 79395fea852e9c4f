package referenceframe

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/igknighters/stemsolver/spatialmath"
)

// MechanismPoints are the world-space points used to check a pose for collisions. The umbrella
// corners are named in the blade's own frame: "bottom" is the edge running through the wrist axle
// and "left" is the end at the wrist axle.
type MechanismPoints struct {
	WristAxle           r2.Point
	UmbrellaTopLeft     r2.Point
	UmbrellaTopRight    r2.Point
	UmbrellaBottomLeft  r2.Point
	UmbrellaBottomRight r2.Point
	// UmbrellaBounds is the axis-aligned box around the four umbrella corners.
	UmbrellaBounds spatialmath.Rectangle
}

// Characteristic returns the five points that must stay inside the allowed bounds: the wrist axle
// followed by the four umbrella corners.
func (m MechanismPoints) Characteristic() []r2.Point {
	return []r2.Point{
		m.WristAxle,
		m.UmbrellaTopLeft,
		m.UmbrellaTopRight,
		m.UmbrellaBottomLeft,
		m.UmbrellaBottomRight,
	}
}

// Evaluator computes the mechanism points of a pose. Implementations must be pure.
type Evaluator interface {
	Evaluate(state StemState, dims Dimensions) MechanismPoints
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(state StemState, dims Dimensions) MechanismPoints

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(state StemState, dims Dimensions) MechanismPoints {
	return f(state, dims)
}

// StemModel is the planar model of a pivoting telescope carrying a rectangular blade.
//
// The wrist axle sits TelescopeLength from the origin along the pivot angle. The blade heads along
// pivot - wrist, so a positive wrist angle folds it clockwise, and its thickness extends to the
// blade's left-hand side.
type StemModel struct{}

// Evaluate implements Evaluator.
func (StemModel) Evaluate(state StemState, dims Dimensions) MechanismPoints {
	pivot := state.PivotRadians()
	axle := dims.TelescopeOrigin.Add(r2.Point{
		X: state.TelescopeLength * math.Cos(pivot),
		Y: state.TelescopeLength * math.Sin(pivot),
	})

	heading := pivot - state.WristRadians()
	along := r2.Point{X: math.Cos(heading), Y: math.Sin(heading)}
	across := along.Ortho()

	bottomLeft := axle
	bottomRight := axle.Add(along.Mul(dims.WristLength()))
	topLeft := bottomLeft.Add(across.Mul(dims.UmbrellaHeight))
	topRight := bottomRight.Add(across.Mul(dims.UmbrellaHeight))

	return MechanismPoints{
		WristAxle:           axle,
		UmbrellaTopLeft:     topLeft,
		UmbrellaTopRight:    topRight,
		UmbrellaBottomLeft:  bottomLeft,
		UmbrellaBottomRight: bottomRight,
		UmbrellaBounds:      spatialmath.RectangleFromPoints(topLeft, topRight, bottomLeft, bottomRight),
	}
}
