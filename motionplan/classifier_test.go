package motionplan

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/igknighters/stemsolver/referenceframe"
	"github.com/igknighters/stemsolver/spatialmath"
)

// testGeometry is a stem mounted 10 above the center of a 40x10 drive base, with a 10x2 blade and
// roomy allowed bounds.
func testGeometry() referenceframe.Geometry {
	return referenceframe.Geometry{
		TelescopeOrigin: r2.Point{X: 0, Y: 10},
		UmbrellaLength:  10,
		UmbrellaHeight:  2,
		DriveBase:       spatialmath.NewRectangle(r2.Point{}, 40, 10),
		AllowedBounds:   spatialmath.NewRectangle(r2.Point{}, 400, 200),
	}
}

func testDimensions(geometry referenceframe.Geometry) referenceframe.Dimensions {
	return referenceframe.NewDimensions(geometry, referenceframe.StemState{})
}

func TestClassifyFarAway(t *testing.T) {
	geometry := testGeometry()
	geometry.DriveBase = spatialmath.NewRectangle(r2.Point{X: -500, Y: -500}, 10, 10)
	geometry.AllowedBounds = spatialmath.NewRectangle(r2.Point{}, 10000, 10000)
	dims := testDimensions(geometry)
	classifier := NewClassifier(referenceframe.StemModel{})

	for _, state := range []referenceframe.StemState{
		referenceframe.NewStemState(0, 0, 100),
		referenceframe.NewStemState(45, 10, 50),
		referenceframe.NewStemState(-60, -30, 200),
		referenceframe.NewStemState(170, 90, 10),
	} {
		test.That(t, classifier.Classify(state, dims), test.ShouldEqual, None)
	}
}

func TestClassify(t *testing.T) {
	classifier := NewClassifier(referenceframe.StemModel{})
	narrow := testGeometry()
	narrow.AllowedBounds = spatialmath.NewRectangle(r2.Point{}, 400, 8)

	for _, tc := range []struct {
		name     string
		geometry referenceframe.Geometry
		state    referenceframe.StemState
		expected InvalidationReason
	}{
		{"straight out", testGeometry(), referenceframe.NewStemState(0, 0, 30), None},
		{"raised", testGeometry(), referenceframe.NewStemState(45, 20, 60), None},
		{"telescope into base", testGeometry(), referenceframe.NewStemState(-20, 0, 30), DriveBase},
		{"blade folded into base", testGeometry(), referenceframe.NewStemState(0, 90, 15), DriveBase},
		{"past right wall", testGeometry(), referenceframe.NewStemState(0, 0, 250), Walls},
		{"past top wall", testGeometry(), referenceframe.NewStemState(90, 0, 120), Walls},
		{"into base and out of bounds", narrow, referenceframe.NewStemState(-30, 0, 30), DriveBaseAndWalls},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, classifier.Classify(tc.state, testDimensions(tc.geometry)), test.ShouldEqual, tc.expected)
		})
	}
}

func TestInspectStraight(t *testing.T) {
	classifier := NewClassifier(referenceframe.StemModel{})
	ins := classifier.Inspect(referenceframe.NewStemState(0, 0, 30), testDimensions(testGeometry()))

	// both lines are horizontal, so neither crosses the base's edges
	test.That(t, math.IsNaN(ins.WristTopIntercept), test.ShouldBeTrue)
	test.That(t, math.IsNaN(ins.WristBottomIntercept), test.ShouldBeTrue)
	test.That(t, math.IsNaN(ins.TelescopeTopIntercept), test.ShouldBeTrue)
	test.That(t, math.IsNaN(ins.TelescopeBottomIntercept), test.ShouldBeTrue)
	test.That(t, ins.WristInterceptInBase, test.ShouldBeFalse)
	test.That(t, ins.TelescopeInterceptInBase, test.ShouldBeFalse)
	test.That(t, ins.UmbrellaPastBase, test.ShouldBeFalse)
	test.That(t, ins.WristAxlePastBase, test.ShouldBeFalse)
	test.That(t, ins.OutOfBounds, test.ShouldBeEmpty)
	test.That(t, ins.Reason, test.ShouldEqual, None)
}

func TestInspectTelescopeIntoBase(t *testing.T) {
	classifier := NewClassifier(referenceframe.StemModel{})
	state := referenceframe.NewStemState(-20, 0, 30)
	ins := classifier.Inspect(state, testDimensions(testGeometry()))

	axle := ins.Points.WristAxle
	slope := (axle.Y - 10) / axle.X
	test.That(t, ins.TelescopeTopIntercept, test.ShouldAlmostEqual, (5-10)/slope)
	test.That(t, ins.TelescopeBottomIntercept, test.ShouldAlmostEqual, (-5-10)/slope)
	test.That(t, ins.TelescopeInterceptInBase, test.ShouldBeTrue)
	test.That(t, ins.WristAxlePastBase, test.ShouldBeTrue)
	test.That(t, ins.State, test.ShouldResemble, state)
	test.That(t, ins.Reason, test.ShouldEqual, DriveBase)
}

func TestInspectBladeFolded(t *testing.T) {
	classifier := NewClassifier(referenceframe.StemModel{})
	ins := classifier.Inspect(referenceframe.NewStemState(0, 90, 15), testDimensions(testGeometry()))

	// the blade points straight down, so its line is vertical at the axle's x
	test.That(t, ins.WristTopIntercept, test.ShouldAlmostEqual, 15.)
	test.That(t, ins.WristBottomIntercept, test.ShouldAlmostEqual, 15.)
	test.That(t, ins.WristInterceptInBase, test.ShouldBeTrue)
	test.That(t, ins.UmbrellaPastBase, test.ShouldBeTrue)
	test.That(t, ins.WristAxlePastBase, test.ShouldBeFalse)
	test.That(t, ins.Reason, test.ShouldEqual, DriveBase)
}

func TestInspectOutOfBounds(t *testing.T) {
	classifier := NewClassifier(referenceframe.StemModel{})
	ins := classifier.Inspect(referenceframe.NewStemState(0, 0, 195), testDimensions(testGeometry()))

	// the axle at x=195 is inside, the blade's right-hand corners at x=205 are not
	test.That(t, ins.OutOfBounds, test.ShouldHaveLength, 2)
	for _, pt := range ins.OutOfBounds {
		test.That(t, pt.X, test.ShouldAlmostEqual, 205.)
	}
	test.That(t, ins.Reason, test.ShouldEqual, Walls)
}
