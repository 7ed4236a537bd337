// Package owi is the boundary of the OWI arm model: one object that owns the kinematic model, the input gate, and
// the animator, serializes every call into them, and can drive the animator from a fixed rate ticker.
package owi

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/owiarm/animation"
	"go.viam.com/owiarm/config"
	"go.viam.com/owiarm/kinematics"
	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
	"go.viam.com/owiarm/safety"
	"go.viam.com/owiarm/spatialmath"
	"go.viam.com/owiarm/utils"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("arm is closed")

// Option configures an Arm.
type Option func(*Arm)

// WithClock replaces the wall clock used by StartTicking.
func WithClock(clk clock.Clock) Option {
	return func(a *Arm) {
		a.clk = clk
	}
}

// WithLandmarks builds the model from custom geometry.
func WithLandmarks(lm kinematics.Landmarks) Option {
	return func(a *Arm) {
		a.landmarks = lm
	}
}

// Arm is the OWI arm façade. All methods are safe for concurrent use.
type Arm struct {
	logger    logging.Logger
	clk       clock.Clock
	landmarks kinematics.Landmarks

	mu       sync.Mutex
	model    *kinematics.Model
	gate     *safety.Gate
	animator *animation.Animator
	ticker   utils.StoppableWorkers
	ticks    int64
	closed   bool
}

// NewArm builds an arm at rest from conf. A nil conf uses the defaults.
func NewArm(conf *config.Config, logger logging.Logger, opts ...Option) (*Arm, error) {
	if conf == nil {
		conf = config.Default()
	}
	if err := conf.Validate("owiarm"); err != nil {
		return nil, err
	}
	a := &Arm{
		logger:    logger,
		clk:       clock.New(),
		landmarks: kinematics.DefaultLandmarks(),
	}
	for _, opt := range opts {
		opt(a)
	}

	model, err := kinematics.NewModel(a.landmarks, conf.ResolvedLimits(), logger.Sublogger("kinematics"))
	if err != nil {
		return nil, errors.Wrap(err, "cannot build arm model")
	}
	a.model = model
	a.gate = safety.NewGate(model, conf.ResolvedPlaneY(), logger.Sublogger("safety"))
	a.animator = animation.NewAnimator(model, conf.ResolvedFramesPerSegment(), logger.Sublogger("animation"))
	return a, nil
}

// ApplyJointDelta moves joint index from previousValue to newValue without consulting the gate.
func (a *Arm) ApplyJointDelta(index int, newValue, previousValue float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return a.model.ApplyJointDelta(index, newValue, previousValue)
}

// RequestJointChange asks the gate to move joint index to candidate. Requests are rejected while a sequence is
// loaded.
func (a *Arm) RequestJointChange(index int, candidate float64) (safety.Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return safety.Rejected, ErrClosed
	}
	if err := referenceframe.ValidateIndex(index); err != nil {
		return safety.Rejected, err
	}
	if a.animator.State() != animation.Idle {
		a.logger.Debugw("joint change rejected during playback", "joint", index, "state", a.animator.State())
		return safety.Rejected, nil
	}
	return a.gate.RequestJointChange(index, candidate)
}

// WorldPosition returns the end effector's world position.
func (a *Arm) WorldPosition() r3.Vector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.WorldPosition()
}

// ViolatesWorkspace reports whether the end effector is inside the base housing.
func (a *Arm) ViolatesWorkspace() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.ViolatesWorkspace()
}

// Housing returns the base exclusion volume.
func (a *Arm) Housing() *spatialmath.Box {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.Housing()
}

// EndPosition returns the end effector's world pose.
func (a *Arm) EndPosition() (spatialmath.Pose, error) {
	return a.FramePose(kinematics.FrameEndEffector)
}

// FramePose returns the world pose of one scene graph frame.
func (a *Arm) FramePose(frameIndex int) (spatialmath.Pose, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.WorldPose(frameIndex)
}

// Frames returns a copy of every scene graph frame in index order.
func (a *Arm) Frames() []kinematics.JointFrame {
	a.mu.Lock()
	defer a.mu.Unlock()
	frames := make([]kinematics.JointFrame, 0, a.model.NumFrames())
	for i := 0; i < a.model.NumFrames(); i++ {
		//nolint:errcheck
		f, _ := a.model.Frame(i)
		frames = append(frames, f)
	}
	return frames
}

// JawPositions returns the world positions of both gripper jaws.
func (a *Arm) JawPositions() [2]r3.Vector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.JawPositions()
}

// JointPositions returns the current joint values.
func (a *Arm) JointPositions() referenceframe.JointState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.JointState()
}

// SnapshotPose returns the current joint values as a keyframe.
func (a *Arm) SnapshotPose() []float64 {
	return a.JointPositions().Slice()
}

// Limits returns the joint limits in use.
func (a *Arm) Limits() []referenceframe.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.Limits()
}

// StartSequence loads poses into the animator and moves to the first one.
func (a *Arm) StartSequence(poses [][]float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return a.animator.Start(poses)
}

// StopSequence unloads the sequence and returns to rest.
func (a *Arm) StopSequence() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return a.animator.Stop()
}

// Tick advances the animator by one frame.
func (a *Arm) Tick() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	a.ticks++
	return a.animator.Tick()
}

// Ticks is the number of ticks delivered so far.
func (a *Arm) Ticks() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ticks
}

// IsMoving is true while a sequence is cycling.
func (a *Arm) IsMoving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.animator.State() == animation.Cycling
}

// PlaybackState returns the animator's state and cursor.
func (a *Arm) PlaybackState() (animation.State, animation.Cursor) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.animator.State(), a.animator.Cursor()
}

// Reset stops any playback, returns every joint to rest and clears the gate's memory.
func (a *Arm) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	if err := a.animator.Stop(); err != nil {
		return err
	}
	if err := a.model.Reset(); err != nil {
		return err
	}
	a.gate.Reset()
	return nil
}

// StartTicking calls Tick hz times a second until StopTicking or Close.
func (a *Arm) StartTicking(hz float64) error {
	if hz <= 0 {
		return errors.Errorf("tick rate must be positive, got %v", hz)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	if a.ticker != nil {
		return errors.New("already ticking")
	}
	period := time.Duration(float64(time.Second) / hz)
	a.ticker = utils.NewStoppableWorkerWithTicker(a.clk, period, func(ctx context.Context) {
		if err := a.Tick(); err != nil && !errors.Is(err, ErrClosed) {
			a.logger.Errorw("tick failed", "error", err)
		}
	})
	a.logger.Debugw("started ticking", "hz", hz, "period", period)
	return nil
}

// StopTicking stops the background ticker, if any.
func (a *Arm) StopTicking() {
	a.mu.Lock()
	ticker := a.ticker
	a.ticker = nil
	a.mu.Unlock()
	if ticker != nil {
		ticker.Stop()
	}
}

// Close stops the ticker and releases the arm. Further calls return ErrClosed.
func (a *Arm) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	ticker := a.ticker
	a.ticker = nil
	a.mu.Unlock()
	// the worker may be waiting on mu inside Tick, so it is stopped unlocked
	if ticker != nil {
		ticker.Stop()
	}
	return nil
}
