package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// lineEpsilon is the smallest coordinate difference treated as nonzero when deciding whether a
// line is vertical, horizontal, or collapsed to a point.
const lineEpsilon = 1e-9

// LineIntercept returns the x coordinate at which the infinite line through p1 and p2 crosses the
// horizontal line at y.
//
// A vertical line crosses every y at p1.X, so that is returned. A horizontal line has no unique
// crossing, and two coincident points do not define a line; both return a
// *DegenerateGeometryError. A non-nil error is never accompanied by a meaningful x.
func LineIntercept(p1, p2 r2.Point, y float64) (float64, error) {
	delta := p2.Sub(p1)
	if delta.Norm() < lineEpsilon {
		return math.NaN(), NewCoincidentPointsError(p1)
	}
	if math.Abs(delta.X) < lineEpsilon {
		return p1.X, nil
	}
	if math.Abs(delta.Y) < lineEpsilon {
		return math.NaN(), NewHorizontalLineError(p1.Y, y)
	}

	slope := delta.Y / delta.X
	return p2.X + (y-p2.Y)/slope, nil
}

// Distance returns the euclidean distance between two points.
func Distance(p1, p2 r2.Point) float64 {
	return p2.Sub(p1).Norm()
}
