package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/owiarm/spatialmath"
)

// WorldPosition resolves the end effector marker through the frame chain. Nothing is cached between calls.
func (m *Model) WorldPosition() r3.Vector {
	//nolint:errcheck
	pose, _ := m.graph.WorldPose(FrameEndEffector)
	return pose.Point()
}

// ViolatesWorkspace reports whether the end effector lies inside the base housing, faces included.
func (m *Model) ViolatesWorkspace() bool {
	return m.housing.ContainsPoint(m.WorldPosition(), 0)
}

// Housing returns the base exclusion volume.
func (m *Model) Housing() *spatialmath.Box {
	return m.housing
}

// WorldPose returns the world pose of any scene graph frame.
func (m *Model) WorldPose(frameIndex int) (spatialmath.Pose, error) {
	return m.graph.WorldPose(frameIndex)
}

// JawPositions returns the world positions of the two gripper jaws.
func (m *Model) JawPositions() [2]r3.Vector {
	var out [2]r3.Vector
	for i, idx := range []int{FrameJaw0, FrameJaw1} {
		//nolint:errcheck
		pose, _ := m.graph.WorldPose(idx)
		out[i] = pose.Point()
	}
	return out
}
