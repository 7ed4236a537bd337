package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// AxisLandmark describes the rotation axis of a pitch joint. All three points are expressed in the space of the
// rotated frame's parent, which is the space the rotated frame's local position lives in.
type AxisLandmark struct {
	Start r3.Vector `json:"start"`
	End   r3.Vector `json:"end"`
	Pivot r3.Vector `json:"pivot"`
}

// Axis returns the normalized direction Start - End.
func (a AxisLandmark) Axis() (r3.Vector, error) {
	d := a.Start.Sub(a.End)
	if d.Norm() == 0 {
		return r3.Vector{}, NewDegenerateAxisError(a.Start)
	}
	return d.Normalize(), nil
}

// GripperLandmark is the travel line of one gripper jaw, in the wrist frame's space.
type GripperLandmark struct {
	Open   r3.Vector `json:"open"`
	Closed r3.Vector `json:"closed"`
}

// At returns the jaw position for gripper value v in percent. 50 is the open point; 0 and 100 sit half a travel
// length either side of it.
func (g GripperLandmark) At(v float64) r3.Vector {
	t := (v - 50) / 100
	return g.Open.Add(g.Closed.Sub(g.Open).Mul(t))
}

// HousingPart is one axis-aligned piece of the base, in world space. Round parts are given by their bounding box.
type HousingPart struct {
	Center r3.Vector `json:"center"`
	Dims   r3.Vector `json:"dims"`
}

// Landmarks is the fixed reference geometry of the arm.
type Landmarks struct {
	// BaseOrientationDeg is the initial yaw of frame 0 about its local vertical axis.
	BaseOrientationDeg float64            `json:"base_orientation_deg"`
	Axes               [3]AxisLandmark    `json:"axes"`
	Jaws               [2]GripperLandmark `json:"jaws"`
	EndEffector        r3.Vector          `json:"end_effector"`
	BaseHousing        []HousingPart      `json:"base_housing"`
}

// DefaultLandmarks returns the geometry of the OWI-535 model: Y up, lengths in model units.
func DefaultLandmarks() Landmarks {
	return Landmarks{
		BaseOrientationDeg: 90,
		Axes: [3]AxisLandmark{
			{Start: r3.Vector{Y: 5.5, Z: -5}, End: r3.Vector{Y: 5.5, Z: 5}, Pivot: r3.Vector{Y: 5.5}},
			{Start: r3.Vector{Y: 13.5, Z: -5}, End: r3.Vector{Y: 13.5, Z: 5}, Pivot: r3.Vector{Y: 13.5}},
			{Start: r3.Vector{Y: 18.5, Z: -5}, End: r3.Vector{Y: 18.5, Z: 5}, Pivot: r3.Vector{Y: 18.5}},
		},
		Jaws: [2]GripperLandmark{
			{Open: r3.Vector{Y: 23.5, Z: -0.7}, Closed: r3.Vector{Y: 23.5, Z: -0.15}},
			{Open: r3.Vector{Y: 23.5, Z: 0.7}, Closed: r3.Vector{Y: 23.5, Z: 0.15}},
		},
		EndEffector: r3.Vector{Y: 26.5},
		// the base is modelled along its own +X and turned a quarter about Y, so its long side runs along -Z
		BaseHousing: []HousingPart{
			{Center: r3.Vector{Y: 0.5}, Dims: r3.Vector{X: 8, Y: 1, Z: 8}},
			{Center: r3.Vector{Y: 2}, Dims: r3.Vector{X: 8, Y: 2, Z: 8}},
			{Center: r3.Vector{Y: 3.5}, Dims: r3.Vector{X: 8, Y: 1, Z: 8}},
			{Center: r3.Vector{Y: 2, Z: -6}, Dims: r3.Vector{X: 6, Y: 4, Z: 12}},
			{Center: r3.Vector{Y: 4.25, Z: -8}, Dims: r3.Vector{X: 4, Y: 0.5, Z: 6}},
		},
	}
}

// Validate checks the landmarks for geometry the engine cannot use.
func (l Landmarks) Validate() error {
	for i, a := range l.Axes {
		if _, err := a.Axis(); err != nil {
			return errors.Wrapf(err, "joint %d", i+1)
		}
	}
	if len(l.BaseHousing) == 0 {
		return errors.New("base housing needs at least one part")
	}
	return nil
}
