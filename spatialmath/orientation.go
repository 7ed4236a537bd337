package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/owiarm/utils"
)

// NewZeroOrientation returns the identity rotation.
func NewZeroOrientation() quat.Number {
	return quat.Number{Real: 1}
}

// RotateVector rotates v by the unit quaternion q, computed as q*v*q'.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// RotateAboutPoint rotates v about the line through pivot with direction given by q's axis.
func RotateAboutPoint(q quat.Number, v, pivot r3.Vector) r3.Vector {
	return RotateVector(q, v.Sub(pivot)).Add(pivot)
}

// ComposeOrientations returns the rotation a followed, in a's local frame, by b.
func ComposeOrientations(a, b quat.Number) quat.Number {
	return Normalize(quat.Mul(a, b))
}

// Normalize scales q to unit length. The zero quaternion is returned unchanged.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}

// QuaternionAlmostEqual is an equality test for two unit quaternions that treats q and -q as the same rotation.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	same := withinTol(a.Real, b.Real, tol) && withinTol(a.Imag, b.Imag, tol) &&
		withinTol(a.Jmag, b.Jmag, tol) && withinTol(a.Kmag, b.Kmag, tol)
	flipped := withinTol(a.Real, -b.Real, tol) && withinTol(a.Imag, -b.Imag, tol) &&
		withinTol(a.Jmag, -b.Jmag, tol) && withinTol(a.Kmag, -b.Kmag, tol)
	return same || flipped
}

func withinTol(a, b, tol float64) bool {
	return utils.Float64AlmostEqual(a, b, tol)
}
