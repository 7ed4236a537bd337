package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a position together with an orientation.
type Pose struct {
	point       r3.Vector
	orientation quat.Number
}

// NewPose builds a pose from a point and a rotation. The rotation is normalized.
func NewPose(p r3.Vector, o quat.Number) Pose {
	return Pose{point: p, orientation: Normalize(o)}
}

// Point returns the position.
func (p Pose) Point() r3.Vector {
	return p.point
}

// Orientation returns the rotation as a unit quaternion.
func (p Pose) Orientation() quat.Number {
	return p.orientation
}

// Transform maps a point expressed in this pose's frame into the parent frame.
func (p Pose) Transform(pt r3.Vector) r3.Vector {
	return RotateVector(p.orientation, pt).Add(p.point)
}

func (p Pose) String() string {
	aa := QuatToR4AA(p.orientation)
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f Theta:%.4f RX:%.4f RY:%.4f RZ:%.4f}",
		p.point.X, p.point.Y, p.point.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

// Compose treats b as expressed in a's frame and returns b in a's parent frame.
func Compose(a, b Pose) Pose {
	return Pose{
		point:       a.Transform(b.point),
		orientation: ComposeOrientations(a.orientation, b.orientation),
	}
}

// PoseAlmostCoincident checks that two poses are at the same point within eps, ignoring orientation.
func PoseAlmostCoincident(a, b Pose, eps float64) bool {
	return R3VectorAlmostEqual(a.point, b.point, eps)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return withinTol(a.X, b.X, epsilon) && withinTol(a.Y, b.Y, epsilon) && withinTol(a.Z, b.Z, epsilon)
}
