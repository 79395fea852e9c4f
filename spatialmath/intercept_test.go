package spatialmath

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestLineIntercept(t *testing.T) {
	for _, tc := range []struct {
		name     string
		p1, p2   r2.Point
		y        float64
		expected float64
	}{
		{"diagonal", r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, 5, 5},
		{"reversed points", r2.Point{X: 1, Y: 1}, r2.Point{X: 0, Y: 0}, 5, 5},
		{"negative slope", r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 0}, 2, 8},
		{"offset line", r2.Point{X: 2, Y: 1}, r2.Point{X: 4, Y: 2}, 0, 0},
		{"vertical", r2.Point{X: 3, Y: -1}, r2.Point{X: 3, Y: 7}, 100, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x, err := LineIntercept(tc.p1, tc.p2, tc.y)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, x, test.ShouldAlmostEqual, tc.expected)
		})
	}
}

func TestLineInterceptDegenerate(t *testing.T) {
	var degenerate *DegenerateGeometryError

	_, err := LineIntercept(r2.Point{X: 1, Y: 1}, r2.Point{X: 1, Y: 1}, 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coincide")

	x, err := LineIntercept(r2.Point{X: 0, Y: 4}, r2.Point{X: 9, Y: 4}, 0)
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "parallel")
	test.That(t, math.IsNaN(x), test.ShouldBeTrue)
}

func TestDistance(t *testing.T) {
	test.That(t, Distance(r2.Point{X: 1, Y: 1}, r2.Point{X: 4, Y: 5}), test.ShouldAlmostEqual, 5.)
}
