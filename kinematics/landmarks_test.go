package kinematics

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAxisLandmark(t *testing.T) {
	axis, err := DefaultLandmarks().Axes[0].Axis()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis, test.ShouldResemble, r3.Vector{Z: -1})

	_, err = AxisLandmark{Start: r3.Vector{Y: 1}, End: r3.Vector{Y: 1}}.Axis()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coincide")
}

func TestGripperLandmarkAt(t *testing.T) {
	jaw := DefaultLandmarks().Jaws[0]
	test.That(t, jaw.At(50), test.ShouldResemble, jaw.Open)

	travel := jaw.Closed.Sub(jaw.Open)
	lo := jaw.At(0)
	hi := jaw.At(100)
	test.That(t, lo.Z, test.ShouldAlmostEqual, jaw.Open.Z-0.5*travel.Z)
	test.That(t, hi.Z, test.ShouldAlmostEqual, jaw.Open.Z+0.5*travel.Z)
	test.That(t, lo.Y, test.ShouldEqual, jaw.Open.Y)
}

func TestLandmarksValidate(t *testing.T) {
	test.That(t, DefaultLandmarks().Validate(), test.ShouldBeNil)

	bad := DefaultLandmarks()
	bad.Axes[2].End = bad.Axes[2].Start
	err := bad.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 3")

	noBase := DefaultLandmarks()
	noBase.BaseHousing = nil
	test.That(t, noBase.Validate(), test.ShouldNotBeNil)
}
