// Package referenceframe defines the joint space of the OWI arm: the five joint slots, their bounds, and the
// state vector that holds one value per slot.
package referenceframe

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/owiarm/utils"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other errors.
const OOBErrString = "input out of bounds"

// DoF is the number of controllable joint values on the arm.
const DoF = 5

// Joint slot indices, base to gripper.
const (
	BaseYaw = iota
	ShoulderPitch
	ElbowPitch
	WristPitch
	Gripper
)

// JointNames are human readable labels for each slot.
var JointNames = [DoF]string{"base yaw", "shoulder pitch", "elbow pitch", "wrist pitch", "gripper"}

// Limit represents the limits of motion for a joint slot. Angles are in degrees, the gripper in percent.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (l Limit) String() string {
	return fmt.Sprintf("[%g, %g]", l.Min, l.Max)
}

// Contains reports whether v lies within the limit, bounds included.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Clamp forces v into the limit.
func (l Limit) Clamp(v float64) float64 {
	return utils.Clamp(v, l.Min, l.Max)
}

// DefaultLimits returns a fresh copy of the canonical bounds table.
func DefaultLimits() []Limit {
	return []Limit{
		{Min: -135, Max: 135},
		{Min: -85, Max: 85},
		{Min: -135, Max: 135},
		{Min: -60, Max: 60},
		{Min: 0, Max: 100},
	}
}

// ValidateLimits checks that there is one well formed limit per slot. Bounds must be finite and contain 0, the
// value every joint holds at rest.
func ValidateLimits(limits []Limit) error {
	if len(limits) != DoF {
		return NewIncorrectDoFError(len(limits), DoF)
	}
	var err error
	for i, l := range limits {
		switch {
		case !isFinite(l.Min) || !isFinite(l.Max):
			err = multierr.Append(err, errors.Errorf("limit for %s must be finite, got %v", JointNames[i], l))
		case l.Min > l.Max:
			err = multierr.Append(err, errors.Errorf("limit for %s has min %g above max %g", JointNames[i], l.Min, l.Max))
		case !l.Contains(0):
			err = multierr.Append(err, errors.Errorf("limit for %s must contain the rest value 0, got %v", JointNames[i], l))
		}
	}
	return err
}

// CheckFinite returns an error if any of values for joint index is NaN or infinite.
func CheckFinite(index int, values ...float64) error {
	for _, v := range values {
		if !isFinite(v) {
			return NewNonFiniteJointValueError(index, v)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateIndex returns an error if index does not name a joint slot.
func ValidateIndex(index int) error {
	if index < 0 || index >= DoF {
		return NewJointIndexOutOfRangeError(index)
	}
	return nil
}

// CheckBounds returns an error describing every value that lies outside its limit.
func CheckBounds(limits []Limit, values []float64) error {
	if len(values) != len(limits) {
		return NewIncorrectDoFError(len(values), len(limits))
	}
	var err error
	for i, v := range values {
		if !limits[i].Contains(v) {
			err = multierr.Append(err, NewJointOutOfBoundsError(i, v, limits[i]))
		}
	}
	return err
}
