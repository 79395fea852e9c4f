package referenceframe

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/igknighters/stemsolver/spatialmath"
	"github.com/igknighters/stemsolver/utils"
)

// Geometry is the part of the stem's shape that never changes while it moves.
type Geometry struct {
	// TelescopeOrigin is the pivot axle, where the telescope is mounted.
	TelescopeOrigin r2.Point
	// UmbrellaLength is how far the wrist blade extends from the wrist axle.
	UmbrellaLength float64
	// UmbrellaHeight is the blade's thickness, measured perpendicular to its length.
	UmbrellaHeight float64
	DriveBase      spatialmath.Rectangle
	AllowedBounds  spatialmath.Rectangle
}

// Validate returns every problem with the geometry at once.
func (g Geometry) Validate() error {
	var err error
	if !utils.IsFinite(g.TelescopeOrigin.X, g.TelescopeOrigin.Y) {
		err = multierr.Append(err, errors.New("telescope origin is not finite"))
	}
	if !utils.IsFinite(g.UmbrellaLength) || g.UmbrellaLength <= 0 {
		err = multierr.Append(err, errors.Errorf("umbrella length must be positive, got %.3f", g.UmbrellaLength))
	}
	if !utils.IsFinite(g.UmbrellaHeight) || g.UmbrellaHeight < 0 {
		err = multierr.Append(err, errors.Errorf("umbrella height must not be negative, got %.3f", g.UmbrellaHeight))
	}
	if rectErr := g.DriveBase.IsValid(); rectErr != nil {
		err = multierr.Append(err, errors.Wrap(rectErr, "drive base"))
	}
	if rectErr := g.AllowedBounds.IsValid(); rectErr != nil {
		err = multierr.Append(err, errors.Wrap(rectErr, "allowed bounds"))
	}
	return err
}

// Dimensions is the per-tick snapshot of the stem's geometry, taken from the mechanism at the
// start of each tick. It is always derived, never edited in place.
type Dimensions struct {
	Geometry
	// StemLength is the telescope length the mechanism reported for this tick.
	StemLength float64
}

// NewDimensions combines the static geometry with the mechanism's current telescope length.
func NewDimensions(geometry Geometry, current StemState) Dimensions {
	return Dimensions{
		Geometry:   geometry,
		StemLength: current.TelescopeLength,
	}
}

// WristLength is the length of the wrist blade.
func (d Dimensions) WristLength() float64 {
	return d.UmbrellaLength
}
