package referenceframe

import (
	"github.com/pkg/errors"
)

// JointState holds the current value of each joint slot, in degrees for the four rotations and percent for the gripper.
type JointState [DoF]float64

// JointStateFromSlice copies values into a JointState, failing if the arity is wrong.
func JointStateFromSlice(values []float64) (JointState, error) {
	var js JointState
	if len(values) != DoF {
		return js, NewIncorrectDoFError(len(values), DoF)
	}
	copy(js[:], values)
	return js, nil
}

// Slice returns the values as a new slice.
func (js JointState) Slice() []float64 {
	out := make([]float64, DoF)
	copy(out, js[:])
	return out
}

// Get returns the value at index.
func (js JointState) Get(index int) (float64, error) {
	if err := ValidateIndex(index); err != nil {
		return 0, errors.Wrap(err, "cannot read joint state")
	}
	return js[index], nil
}
