package referenceframe

import "github.com/pkg/errors"

// NewIncorrectDoFError returns an error indicating that the given number of values does not match the joint space.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewJointIndexOutOfRangeError returns an error indicating that no joint slot has the given index.
func NewJointIndexOutOfRangeError(index int) error {
	return errors.Errorf("joint index %d out of range, must be in [0, %d)", index, DoF)
}

// NewJointOutOfBoundsError returns an error for a value outside its joint's limit. It always contains OOBErrString.
func NewJointOutOfBoundsError(index int, value float64, limit Limit) error {
	name := "joint"
	if index >= 0 && index < DoF {
		name = JointNames[index]
	}
	return errors.Errorf("%s %.5f %s %v", name, value, OOBErrString, limit)
}

// NewNonFiniteJointValueError returns an error for a NaN or infinite joint value.
func NewNonFiniteJointValueError(index int, value float64) error {
	name := "joint"
	if index >= 0 && index < DoF {
		name = JointNames[index]
	}
	return errors.Errorf("%s value %v is not a finite number", name, value)
}
