// Package kinematics holds the forward kinematic model of the OWI arm: the frame chain, the landmark geometry that
// defines each joint, and the operations that turn joint values into frame transforms.
package kinematics

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
	"go.viam.com/owiarm/spatialmath"
	"go.viam.com/owiarm/utils"
)

// Model is the arm's scene graph together with the joint state that produced it. A Model is not safe for
// concurrent use.
type Model struct {
	logger    logging.Logger
	landmarks Landmarks
	limits    []referenceframe.Limit
	axes      [3]r3.Vector
	graph     *SceneGraph
	housing   *spatialmath.Box
	state     referenceframe.JointState
}

// NewOWIModel builds the model with the default geometry and bounds.
func NewOWIModel(logger logging.Logger) (*Model, error) {
	return NewModel(DefaultLandmarks(), referenceframe.DefaultLimits(), logger)
}

// NewModel builds the frame chain described by landmarks with every joint at zero.
func NewModel(landmarks Landmarks, limits []referenceframe.Limit, logger logging.Logger) (*Model, error) {
	if err := landmarks.Validate(); err != nil {
		return nil, err
	}
	if err := referenceframe.ValidateLimits(limits); err != nil {
		return nil, err
	}
	m := &Model{
		logger:    logger,
		landmarks: landmarks,
		limits:    append([]referenceframe.Limit(nil), limits...),
		graph:     NewSceneGraph(),
	}
	for i, a := range landmarks.Axes {
		//nolint:errcheck
		m.axes[i], _ = a.Axis()
	}

	baseRot := (&spatialmath.R4AA{Theta: utils.DegToRad(landmarks.BaseOrientationDeg), RY: 1}).ToQuat()
	identity := spatialmath.NewZeroOrientation()
	nodes := []struct {
		name   string
		parent int
		pos    r3.Vector
		rot    quat.Number
	}{
		{"shoulder_yaw", World, r3.Vector{}, baseRot},
		{"joint2", FrameShoulderYaw, r3.Vector{}, identity},
		{"joint3", FrameJoint2, r3.Vector{}, identity},
		{"joint4", FrameJoint3, r3.Vector{}, identity},
		{"jaw0", FrameJoint4, landmarks.Jaws[0].Open, identity},
		{"jaw1", FrameJoint4, landmarks.Jaws[1].Open, identity},
		{"end_effector", FrameJoint4, landmarks.EndEffector, identity},
	}
	for _, n := range nodes {
		if _, err := m.graph.AddFrame(n.name, n.parent, n.pos, n.rot); err != nil {
			return nil, errors.Wrap(err, "cannot build scene graph")
		}
	}

	housing, err := housingBox(landmarks.BaseHousing)
	if err != nil {
		return nil, err
	}
	m.housing = housing
	m.logger.Debugw("built arm model", "frames", m.graph.Len(), "housing", housing.String())
	return m, nil
}

func housingBox(parts []HousingPart) (*spatialmath.Box, error) {
	var out *spatialmath.Box
	for i, p := range parts {
		b, err := spatialmath.NewBox(p.Center, p.Dims, fmt.Sprintf("base_%d", i))
		if err != nil {
			return nil, errors.Wrapf(err, "base housing part %d", i)
		}
		if out == nil {
			out = b
			continue
		}
		out = out.Union(b, "base")
	}
	return out, nil
}

// ApplyJointDelta moves joint index from previousValue to newValue. The new value is clamped into the joint's
// limit and recorded as the joint's state. A zero delta leaves every frame untouched.
//
// The frames move by newValue-previousValue, so previousValue must be the value the scene currently shows for
// index, which is JointState()[index]. Passing anything else leaves the state and the scene out of step; SetJoint
// fills it in for callers that only know the target. NaN or infinite values are an error and change nothing.
func (m *Model) ApplyJointDelta(index int, newValue, previousValue float64) error {
	if err := referenceframe.ValidateIndex(index); err != nil {
		return err
	}
	if err := referenceframe.CheckFinite(index, newValue, previousValue); err != nil {
		return err
	}
	newValue = m.limits[index].Clamp(newValue)
	m.state[index] = newValue
	if newValue == previousValue {
		return nil
	}

	switch index {
	case referenceframe.Gripper:
		m.setGripper(newValue)
	case referenceframe.BaseYaw:
		theta := utils.DegToRad(newValue - previousValue)
		f := &m.graph.frames[FrameShoulderYaw]
		q := (&spatialmath.R4AA{Theta: theta, RY: 1}).ToQuat()
		f.Orientation = spatialmath.ComposeOrientations(f.Orientation, q)
	default:
		theta := utils.DegToRad(newValue - previousValue)
		j := index - 1
		r4, err := spatialmath.NewR4AAFromAxis(m.axes[j], theta)
		if err != nil {
			return err
		}
		q := r4.ToQuat()
		f := &m.graph.frames[index]
		f.Position = spatialmath.RotateAboutPoint(q, f.Position, m.landmarks.Axes[j].Pivot)
		f.Orientation = spatialmath.ComposeOrientations(f.Orientation, q)
	}
	return nil
}

func (m *Model) setGripper(v float64) {
	m.graph.frames[FrameJaw0].Position = m.landmarks.Jaws[0].At(v)
	m.graph.frames[FrameJaw1].Position = m.landmarks.Jaws[1].At(v)
}

// SetJoint moves joint index from its current value to value.
func (m *Model) SetJoint(index int, value float64) error {
	if err := referenceframe.ValidateIndex(index); err != nil {
		return err
	}
	return m.ApplyJointDelta(index, value, m.state[index])
}

// SetJointState moves every joint to js, in index order.
func (m *Model) SetJointState(js referenceframe.JointState) error {
	for i, v := range js {
		if err := m.SetJoint(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns every joint to zero.
func (m *Model) Reset() error {
	return m.SetJointState(referenceframe.JointState{})
}

// JointState returns the current joint values.
func (m *Model) JointState() referenceframe.JointState {
	return m.state
}

// Limits returns a copy of the joint limits the model clamps to.
func (m *Model) Limits() []referenceframe.Limit {
	return append([]referenceframe.Limit(nil), m.limits...)
}

// Landmarks returns the geometry the model was built from.
func (m *Model) Landmarks() Landmarks {
	return m.landmarks
}

// Frame returns a copy of one scene graph node.
func (m *Model) Frame(index int) (JointFrame, error) {
	return m.graph.Frame(index)
}

// NumFrames is the number of nodes in the scene graph.
func (m *Model) NumFrames() int {
	return m.graph.Len()
}
