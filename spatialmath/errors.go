package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// DegenerateGeometryError is returned when a construction needs a line or vector that the given
// points do not define.
type DegenerateGeometryError struct {
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	return "degenerate geometry: " + e.Reason
}

// NewCoincidentPointsError is used when two points meant to define a line are the same point.
func NewCoincidentPointsError(pt r2.Point) error {
	return &DegenerateGeometryError{Reason: fmt.Sprintf("points coincide at %v", pt)}
}

// NewHorizontalLineError is used when a horizontal line is asked for its crossing with another
// horizontal line.
func NewHorizontalLineError(lineY, y float64) error {
	return &DegenerateGeometryError{Reason: fmt.Sprintf("line at y=%.6f is parallel to y=%.6f", lineY, y)}
}
