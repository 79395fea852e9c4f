package motionplan

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"github.com/igknighters/stemsolver/referenceframe"
	"github.com/igknighters/stemsolver/spatialmath"
)

// Classifier decides whether a pose of the stem is safe.
type Classifier struct {
	evaluator referenceframe.Evaluator
}

// NewClassifier returns a Classifier that computes mechanism points with the given evaluator.
func NewClassifier(evaluator referenceframe.Evaluator) *Classifier {
	return &Classifier{evaluator: evaluator}
}

// Inspection is the full record of one classification: the evaluated points, every intercept and
// every intermediate flag. Intercepts that do not exist are NaN.
type Inspection struct {
	State  referenceframe.StemState
	Points referenceframe.MechanismPoints

	WristTopIntercept        float64
	WristBottomIntercept     float64
	TelescopeTopIntercept    float64
	TelescopeBottomIntercept float64

	WristInterceptInBase     bool
	TelescopeInterceptInBase bool
	UmbrellaPastBase         bool
	WristAxlePastBase        bool

	// OutOfBounds lists the characteristic points that left the allowed bounds.
	OutOfBounds []r2.Point

	Reason InvalidationReason
}

// Classify returns the constraints the candidate pose violates.
func (c *Classifier) Classify(candidate referenceframe.StemState, dims referenceframe.Dimensions) InvalidationReason {
	return c.Inspect(candidate, dims).Reason
}

// Points evaluates the mechanism points of a pose.
func (c *Classifier) Points(state referenceframe.StemState, dims referenceframe.Dimensions) referenceframe.MechanismPoints {
	return c.evaluator.Evaluate(state, dims)
}

// Inspect classifies the candidate and returns every intermediate result.
//
// The stem hits the drive base when the blade's lowest right-hand corner is at or under the base's
// top edge and the blade's bottom line crosses the base's top or bottom edge within its span, or
// when the wrist axle is at or under the base's top edge and the telescope's line does the same.
func (c *Classifier) Inspect(candidate referenceframe.StemState, dims referenceframe.Dimensions) Inspection {
	pts := c.Points(candidate, dims)
	base := dims.DriveBase

	ins := Inspection{State: candidate, Points: pts}

	ins.WristTopIntercept, ins.WristBottomIntercept, ins.WristInterceptInBase = baseIntercepts(
		pts.UmbrellaBottomLeft, pts.UmbrellaBottomRight, base)
	ins.TelescopeTopIntercept, ins.TelescopeBottomIntercept, ins.TelescopeInterceptInBase = baseIntercepts(
		dims.TelescopeOrigin, pts.WristAxle, base)

	lowestRight := lo.Min([]float64{pts.UmbrellaTopRight.Y, pts.UmbrellaBottomRight.Y})
	ins.UmbrellaPastBase = lowestRight <= base.Top()
	ins.WristAxlePastBase = pts.WristAxle.Y <= base.Top()

	ins.OutOfBounds = lo.Filter(pts.Characteristic(), func(pt r2.Point, _ int) bool {
		return !dims.AllowedBounds.ContainsPoint(pt)
	})

	hitsBase := (ins.UmbrellaPastBase && ins.WristInterceptInBase) ||
		(ins.WristAxlePastBase && ins.TelescopeInterceptInBase)
	ins.Reason = NewInvalidationReason(hitsBase, len(ins.OutOfBounds) > 0)
	return ins
}

// baseIntercepts intersects the line through p1 and p2 with the base's top and bottom edges and
// reports whether either crossing lands within the base's span. A line with no crossing never
// lands in the span.
func baseIntercepts(p1, p2 r2.Point, base spatialmath.Rectangle) (top, bottom float64, inSpan bool) {
	top = intercept(p1, p2, base.Top())
	bottom = intercept(p1, p2, base.Bottom())
	inSpan = lo.SomeBy([]float64{top, bottom}, func(x float64) bool {
		return !math.IsNaN(x) && base.SpansX(x)
	})
	return top, bottom, inSpan
}

func intercept(p1, p2 r2.Point, y float64) float64 {
	x, err := spatialmath.LineIntercept(p1, p2, y)
	if err != nil {
		return math.NaN()
	}
	return x
}
