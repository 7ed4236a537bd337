package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// NewDegenerateAxisError is returned when an axis landmark has identical start and end points.
func NewDegenerateAxisError(at r3.Vector) error {
	return errors.Errorf("axis landmark start and end coincide at %v", at)
}

// NewFrameIndexOutOfRangeError is returned when a scene graph lookup names a frame that does not exist.
func NewFrameIndexOutOfRangeError(index, count int) error {
	return errors.Errorf("frame index %d out of range, graph has %d frames", index, count)
}
