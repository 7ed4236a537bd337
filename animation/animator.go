// Package animation plays a list of keyframes on the arm by linear interpolation, one step per tick.
package animation

import (
	"github.com/pkg/errors"

	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
)

// DefaultFramesPerSegment is the number of ticks spent moving between two keyframes.
const DefaultFramesPerSegment = 100

// State is the playback state of an Animator.
type State int

const (
	// Idle has no sequence loaded.
	Idle State = iota
	// Holding has a single keyframe and never moves.
	Holding
	// Cycling interpolates through two or more keyframes and loops back to the first.
	Cycling
)

func (s State) String() string {
	switch s {
	case Holding:
		return "holding"
	case Cycling:
		return "cycling"
	default:
		return "idle"
	}
}

// Cursor is the playback position inside a sequence.
type Cursor struct {
	Current int
	Next    int
	Elapsed int
}

// Model is the set path the animator drives.
type Model interface {
	JointState() referenceframe.JointState
	Limits() []referenceframe.Limit
	ApplyJointDelta(index int, newValue, previousValue float64) error
}

// Animator steps a model through a keyframe sequence. It is not safe for concurrent use.
type Animator struct {
	model            Model
	logger           logging.Logger
	framesPerSegment int

	state    State
	sequence []referenceframe.JointState
	cursor   Cursor
	running  referenceframe.JointState
	perFrame referenceframe.JointState
}

// NewAnimator returns an idle animator. A non-positive framesPerSegment selects DefaultFramesPerSegment.
func NewAnimator(model Model, framesPerSegment int, logger logging.Logger) *Animator {
	if framesPerSegment <= 0 {
		framesPerSegment = DefaultFramesPerSegment
	}
	return &Animator{model: model, framesPerSegment: framesPerSegment, logger: logger}
}

// Start replaces any loaded sequence with poses and sets the model to the first one. Every pose must have one
// value per joint and lie within the model's limits; otherwise nothing changes.
func (a *Animator) Start(poses [][]float64) error {
	limits := a.model.Limits()
	seq := make([]referenceframe.JointState, 0, len(poses))
	for i, p := range poses {
		js, err := referenceframe.JointStateFromSlice(p)
		if err != nil {
			return errors.Wrapf(err, "keyframe %d", i)
		}
		if err := referenceframe.CheckBounds(limits, p); err != nil {
			return errors.Wrapf(err, "keyframe %d", i)
		}
		seq = append(seq, js)
	}

	a.cursor = Cursor{}
	a.perFrame = referenceframe.JointState{}
	switch len(seq) {
	case 0:
		a.sequence = nil
		a.state = Idle
		return nil
	case 1:
		a.sequence = seq
		a.state = Holding
	default:
		a.sequence = seq
		a.state = Cycling
		a.cursor.Next = 1
	}
	a.running = seq[0]
	a.logger.Debugw("starting sequence", "keyframes", len(seq), "state", a.state)
	return a.push(seq[0])
}

// Tick advances playback by one frame. It does nothing unless the animator is cycling.
func (a *Animator) Tick() error {
	if a.state != Cycling {
		return nil
	}
	n := len(a.sequence)
	if a.cursor.Elapsed == a.framesPerSegment {
		a.cursor.Current = (a.cursor.Current + 1) % n
		a.cursor.Elapsed = 0
		a.cursor.Next = (a.cursor.Current + 1) % n
		a.running = a.sequence[a.cursor.Current]
	}
	if a.cursor.Elapsed == 0 {
		from, to := a.sequence[a.cursor.Current], a.sequence[a.cursor.Next]
		for k := range a.perFrame {
			a.perFrame[k] = (to[k] - from[k]) / float64(a.framesPerSegment)
		}
	}
	for k := range a.running {
		a.running[k] += a.perFrame[k]
	}
	a.cursor.Elapsed++
	return a.push(a.running)
}

// Stop unloads the sequence and returns the model to the rest pose.
func (a *Animator) Stop() error {
	a.state = Idle
	a.sequence = nil
	a.cursor = Cursor{}
	a.running = referenceframe.JointState{}
	a.perFrame = referenceframe.JointState{}
	return a.push(referenceframe.JointState{})
}

// State returns the playback state.
func (a *Animator) State() State {
	return a.state
}

// Cursor returns the playback position.
func (a *Animator) Cursor() Cursor {
	return a.cursor
}

// FramesPerSegment returns the number of ticks per segment.
func (a *Animator) FramesPerSegment() int {
	return a.framesPerSegment
}

// Sequence returns a copy of the loaded keyframes.
func (a *Animator) Sequence() []referenceframe.JointState {
	return append([]referenceframe.JointState(nil), a.sequence...)
}

// push routes every changed component of target through the model, in joint order.
func (a *Animator) push(target referenceframe.JointState) error {
	prev := a.model.JointState()
	for k := range target {
		if target[k] == prev[k] {
			continue
		}
		if err := a.model.ApplyJointDelta(k, target[k], prev[k]); err != nil {
			return err
		}
	}
	return nil
}
