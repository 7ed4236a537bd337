package kinematics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/owiarm/spatialmath"
)

// World is the parent index of a root frame.
const World = -1

// Frame indices in the scene graph. The four joint frames come first so that joint i rotates frame i.
const (
	FrameShoulderYaw = iota
	FrameJoint2
	FrameJoint3
	FrameJoint4
	FrameJaw0
	FrameJaw1
	FrameEndEffector
)

// JointFrame is a node in the scene graph. Position and orientation are local to the parent.
type JointFrame struct {
	Name        string
	Parent      int
	Children    []int
	Position    r3.Vector
	Orientation quat.Number
}

// LocalPose returns the frame's pose relative to its parent.
func (f *JointFrame) LocalPose() spatialmath.Pose {
	return spatialmath.NewPose(f.Position, f.Orientation)
}

// SceneGraph is an arena of frames linked by parent index.
type SceneGraph struct {
	frames []JointFrame
}

// NewSceneGraph returns an empty graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{}
}

// AddFrame appends a frame under parent and returns its index. Parents must be added before their children.
func (g *SceneGraph) AddFrame(name string, parent int, position r3.Vector, orientation quat.Number) (int, error) {
	if parent != World && (parent < 0 || parent >= len(g.frames)) {
		return 0, NewFrameIndexOutOfRangeError(parent, len(g.frames))
	}
	idx := len(g.frames)
	g.frames = append(g.frames, JointFrame{
		Name:        name,
		Parent:      parent,
		Position:    position,
		Orientation: orientation,
	})
	if parent != World {
		g.frames[parent].Children = append(g.frames[parent].Children, idx)
	}
	return idx, nil
}

// Len is the number of frames.
func (g *SceneGraph) Len() int {
	return len(g.frames)
}

// Frame returns a copy of the frame at index.
func (g *SceneGraph) Frame(index int) (JointFrame, error) {
	f, err := g.frame(index)
	if err != nil {
		return JointFrame{}, err
	}
	out := *f
	out.Children = append([]int(nil), f.Children...)
	return out, nil
}

func (g *SceneGraph) frame(index int) (*JointFrame, error) {
	if index < 0 || index >= len(g.frames) {
		return nil, NewFrameIndexOutOfRangeError(index, len(g.frames))
	}
	return &g.frames[index], nil
}

// WorldPose composes the chain from the root down to index.
func (g *SceneGraph) WorldPose(index int) (spatialmath.Pose, error) {
	f, err := g.frame(index)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	pose := f.LocalPose()
	for p := f.Parent; p != World; p = g.frames[p].Parent {
		pose = spatialmath.Compose(g.frames[p].LocalPose(), pose)
	}
	return pose, nil
}
