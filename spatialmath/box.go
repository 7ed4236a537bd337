package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Box is an axis-aligned box in a fixed frame. Its faces are part of the volume.
type Box struct {
	center   r3.Vector
	halfSize [3]float64
	label    string
}

// NewBox instantiates a box centered at center with the given full side lengths.
func NewBox(center, dims r3.Vector, label string) (*Box, error) {
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, newBadGeometryDimensionsError(dims)
	}
	return &Box{
		center:   center,
		halfSize: [3]float64{0.5 * dims.X, 0.5 * dims.Y, 0.5 * dims.Z},
		label:    label,
	}, nil
}

// NewBoxFromExtents instantiates a box from its min and max corners.
func NewBoxFromExtents(lo, hi r3.Vector, label string) (*Box, error) {
	return NewBox(lo.Add(hi).Mul(0.5), hi.Sub(lo), label)
}

func (b *Box) String() string {
	lo, hi := b.Min(), b.Max()
	return fmt.Sprintf("Type: Box | Label: %s | x:[%.3g,%.3g] y:[%.3g,%.3g] z:[%.3g,%.3g]",
		b.label, lo.X, hi.X, lo.Y, hi.Y, lo.Z, hi.Z)
}

// Label returns the label of the box.
func (b *Box) Label() string {
	return b.label
}

// Center returns the center of the box.
func (b *Box) Center() r3.Vector {
	return b.center
}

// Dims returns the full side lengths of the box.
func (b *Box) Dims() r3.Vector {
	return r3.Vector{X: 2 * b.halfSize[0], Y: 2 * b.halfSize[1], Z: 2 * b.halfSize[2]}
}

// Min returns the corner with the smallest coordinates.
func (b *Box) Min() r3.Vector {
	return b.center.Sub(r3.Vector{X: b.halfSize[0], Y: b.halfSize[1], Z: b.halfSize[2]})
}

// Max returns the corner with the largest coordinates.
func (b *Box) Max() r3.Vector {
	return b.center.Add(r3.Vector{X: b.halfSize[0], Y: b.halfSize[1], Z: b.halfSize[2]})
}

// ContainsPoint reports whether pt lies in the box or within buffer of its faces.
func (b *Box) ContainsPoint(pt r3.Vector, buffer float64) bool {
	lo, hi := b.Min(), b.Max()
	return pt.X >= lo.X-buffer && pt.X <= hi.X+buffer &&
		pt.Y >= lo.Y-buffer && pt.Y <= hi.Y+buffer &&
		pt.Z >= lo.Z-buffer && pt.Z <= hi.Z+buffer
}

// Union returns the smallest axis-aligned box enclosing both boxes.
func (b *Box) Union(other *Box, label string) *Box {
	lo, hi := b.Min(), b.Max()
	olo, ohi := other.Min(), other.Max()
	newLo := r3.Vector{X: math.Min(lo.X, olo.X), Y: math.Min(lo.Y, olo.Y), Z: math.Min(lo.Z, olo.Z)}
	newHi := r3.Vector{X: math.Max(hi.X, ohi.X), Y: math.Max(hi.Y, ohi.Y), Z: math.Max(hi.Z, ohi.Z)}
	//nolint:errcheck
	u, _ := NewBoxFromExtents(newLo, newHi, label)
	return u
}
