// Package spatialmath defines the planar geometry used to reason about the stem and its
// surroundings.
//
// All coordinates use a Y-up convention: larger Y is further from the floor. A Rectangle's Top is
// therefore its high-Y edge and its Bottom its low-Y edge.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Rectangle is an axis-aligned rectangle stored as an origin and an extent. The origin sits at the
// rectangle's center, so every edge is origin ± extent/2.
type Rectangle struct {
	Origin r2.Point
	Width  float64
	Height float64
}

// NewRectangle returns a rectangle centered on origin.
func NewRectangle(origin r2.Point, width, height float64) Rectangle {
	return Rectangle{Origin: origin, Width: width, Height: height}
}

// RectangleFromPoints returns the smallest rectangle containing all of the given points.
func RectangleFromPoints(pts ...r2.Point) Rectangle {
	rect := r2.RectFromPoints(pts...)
	size := rect.Size()
	return NewRectangle(rect.Center(), size.X, size.Y)
}

// Left is the low-X edge.
func (r Rectangle) Left() float64 {
	return r.Origin.X - r.Width/2
}

// Right is the high-X edge.
func (r Rectangle) Right() float64 {
	return r.Origin.X + r.Width/2
}

// Bottom is the low-Y edge.
func (r Rectangle) Bottom() float64 {
	return r.Origin.Y - r.Height/2
}

// Top is the high-Y edge.
func (r Rectangle) Top() float64 {
	return r.Origin.Y + r.Height/2
}

// ContainsPoint reports whether pt is inside the rectangle or on its boundary.
func (r Rectangle) ContainsPoint(pt r2.Point) bool {
	return pt.X >= r.Left() && pt.X <= r.Right() && pt.Y >= r.Bottom() && pt.Y <= r.Top()
}

// SpansX reports whether x lies between the left and right edges, inclusive.
func (r Rectangle) SpansX(x float64) bool {
	return x >= r.Left() && x <= r.Right()
}

// IsValid returns an error if the rectangle has a negative or non-finite extent.
func (r Rectangle) IsValid() error {
	for _, v := range []float64{r.Origin.X, r.Origin.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("rectangle %v has a non-finite component", r)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return errors.Errorf("rectangle %v has a negative extent", r)
	}
	return nil
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[x: %.3f..%.3f, y: %.3f..%.3f]", r.Left(), r.Right(), r.Bottom(), r.Top())
}

// EdgeOverflow is how far each edge of an inner rectangle pokes past the matching edge of an outer
// rectangle. Every field is >= 0 and only nonzero on a violated edge.
type EdgeOverflow struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Overflow measures how far inner sticks out of r.
func (r Rectangle) Overflow(inner Rectangle) EdgeOverflow {
	return EdgeOverflow{
		Left:   math.Max(0, r.Left()-inner.Left()),
		Right:  math.Max(0, inner.Right()-r.Right()),
		Top:    math.Max(0, inner.Top()-r.Top()),
		Bottom: math.Max(0, r.Bottom()-inner.Bottom()),
	}
}

// Correction is the translation that moves the inner rectangle back across the violated edges.
func (o EdgeOverflow) Correction() r2.Point {
	return r2.Point{X: o.Left - o.Right, Y: o.Bottom - o.Top}
}

// IsZero reports whether no edge overflows.
func (o EdgeOverflow) IsZero() bool {
	return o == EdgeOverflow{}
}
