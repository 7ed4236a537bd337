package owi

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/owiarm/animation"
	"go.viam.com/owiarm/config"
	"go.viam.com/owiarm/kinematics"
	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
	"go.viam.com/owiarm/safety"
)

func newTestArm(t *testing.T, opts ...Option) *Arm {
	t.Helper()
	a, err := NewArm(nil, logging.NewTestLogger(t), opts...)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, a.Close(context.Background()), test.ShouldBeNil)
	})
	return a
}

func TestNewArm(t *testing.T) {
	logger := logging.NewTestLogger(t)
	a := newTestArm(t)
	pos := a.WorldPosition()
	test.That(t, pos.Y, test.ShouldAlmostEqual, 26.5, 1e-6)
	test.That(t, a.ViolatesWorkspace(), test.ShouldBeFalse)
	test.That(t, a.JointPositions(), test.ShouldResemble, referenceframe.JointState{})
	test.That(t, a.IsMoving(), test.ShouldBeFalse)
	test.That(t, a.Frames(), test.ShouldHaveLength, 7)
	test.That(t, a.Frames()[kinematics.FrameEndEffector].Parent, test.ShouldEqual, kinematics.FrameJoint4)
	test.That(t, a.Limits(), test.ShouldResemble, referenceframe.DefaultLimits())

	end, err := a.EndPosition()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, end.Point().Y, test.ShouldAlmostEqual, 26.5, 1e-6)

	_, err = NewArm(&config.Config{FramesPerSegment: -3}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	lm := kinematics.DefaultLandmarks()
	lm.Axes[0].End = lm.Axes[0].Start
	_, err = NewArm(nil, logger, WithLandmarks(lm))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRequestJointChange(t *testing.T) {
	a := newTestArm(t)

	d, err := a.RequestJointChange(referenceframe.ShoulderPitch, 30)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, safety.Accepted)
	test.That(t, a.JointPositions()[referenceframe.ShoulderPitch], test.ShouldEqual, 30.)
	test.That(t, a.WorldPosition().Z, test.ShouldAlmostEqual, -10.5, 1e-9)

	_, err = a.RequestJointChange(7, 1)
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, a.ApplyJointDelta(referenceframe.Gripper, 40, 0), test.ShouldBeNil)
	test.That(t, a.SnapshotPose(), test.ShouldResemble, []float64{0, 30, 0, 0, 40})
	test.That(t, a.ApplyJointDelta(9, 40, 0), test.ShouldNotBeNil)
}

func TestManualControlDisabledDuringPlayback(t *testing.T) {
	a := newTestArm(t)
	test.That(t, a.StartSequence([][]float64{{10, 0, 0, 0, 0}}), test.ShouldBeNil)
	state, _ := a.PlaybackState()
	test.That(t, state, test.ShouldEqual, animation.Holding)

	d, err := a.RequestJointChange(referenceframe.BaseYaw, 20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, safety.Rejected)
	test.That(t, a.JointPositions()[referenceframe.BaseYaw], test.ShouldEqual, 10.)

	test.That(t, a.StopSequence(), test.ShouldBeNil)
	d, err = a.RequestJointChange(referenceframe.BaseYaw, 20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, safety.Accepted)
}

func TestSequencePlayback(t *testing.T) {
	a := newTestArm(t)
	test.That(t, a.StartSequence([][]float64{{0, 0, 0, 0, 0}, {100, 0, 0, 0, 50}}), test.ShouldBeNil)
	test.That(t, a.IsMoving(), test.ShouldBeTrue)

	for i := 0; i < 50; i++ {
		test.That(t, a.Tick(), test.ShouldBeNil)
	}
	js := a.JointPositions()
	test.That(t, js[referenceframe.BaseYaw], test.ShouldAlmostEqual, 50, 1e-9)
	test.That(t, js[referenceframe.Gripper], test.ShouldAlmostEqual, 25, 1e-9)
	test.That(t, a.Ticks(), test.ShouldEqual, 50)

	test.That(t, a.StopSequence(), test.ShouldBeNil)
	test.That(t, a.IsMoving(), test.ShouldBeFalse)
	test.That(t, a.JointPositions(), test.ShouldResemble, referenceframe.JointState{})

	err := a.StartSequence([][]float64{{0, 0, 0}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, a.IsMoving(), test.ShouldBeFalse)
}

func TestReset(t *testing.T) {
	a := newTestArm(t)
	_, err := a.RequestJointChange(referenceframe.ElbowPitch, -30)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.StartSequence([][]float64{{0, 0, 0, 0, 0}, {10, 10, 10, 10, 10}}), test.ShouldBeNil)
	test.That(t, a.Tick(), test.ShouldBeNil)

	test.That(t, a.Reset(), test.ShouldBeNil)
	test.That(t, a.IsMoving(), test.ShouldBeFalse)
	test.That(t, a.JointPositions(), test.ShouldResemble, referenceframe.JointState{})
	test.That(t, a.WorldPosition().Y, test.ShouldAlmostEqual, 26.5, 1e-9)
	test.That(t, a.gate.LastSign(referenceframe.ElbowPitch), test.ShouldEqual, 0)
	jaws := a.JawPositions()
	test.That(t, jaws[0].X, test.ShouldBeLessThan, jaws[1].X)
}

func TestTicking(t *testing.T) {
	mock := clock.NewMock()
	a := newTestArm(t, WithClock(mock))
	test.That(t, a.StartTicking(0), test.ShouldNotBeNil)

	test.That(t, a.StartSequence([][]float64{{0, 0, 0, 0, 0}, {0, 0, 0, 0, 100}}), test.ShouldBeNil)
	test.That(t, a.StartTicking(100), test.ShouldBeNil)
	test.That(t, a.StartTicking(100), test.ShouldNotBeNil)

	deadline := time.Now().Add(5 * time.Second)
	for a.Ticks() < 10 && time.Now().Before(deadline) {
		mock.Add(10 * time.Millisecond)
	}
	test.That(t, a.Ticks(), test.ShouldBeGreaterThanOrEqualTo, 10)
	test.That(t, a.JointPositions()[referenceframe.Gripper], test.ShouldBeGreaterThan, 0)

	a.StopTicking()
	stopped := a.Ticks()
	mock.Add(time.Second)
	test.That(t, a.Ticks(), test.ShouldEqual, stopped)

	// ticking can be restarted after a stop
	test.That(t, a.StartTicking(50), test.ShouldBeNil)
}

func TestClose(t *testing.T) {
	a, err := NewArm(nil, logging.NewTestLogger(t), WithClock(clock.NewMock()))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.StartTicking(30), test.ShouldBeNil)
	test.That(t, a.Close(context.Background()), test.ShouldBeNil)

	test.That(t, a.Tick(), test.ShouldBeError, ErrClosed)
	test.That(t, a.StartSequence(nil), test.ShouldBeError, ErrClosed)
	test.That(t, a.StopSequence(), test.ShouldBeError, ErrClosed)
	test.That(t, a.Reset(), test.ShouldBeError, ErrClosed)
	test.That(t, a.StartTicking(30), test.ShouldBeError, ErrClosed)
	test.That(t, a.ApplyJointDelta(0, 1, 0), test.ShouldBeError, ErrClosed)
	_, err = a.RequestJointChange(0, 1)
	test.That(t, err, test.ShouldBeError, ErrClosed)
	test.That(t, a.Close(context.Background()), test.ShouldBeNil)
}

func TestCloseWhileTicking(t *testing.T) {
	mock := clock.NewMock()
	a, err := NewArm(nil, logging.NewTestLogger(t), WithClock(mock))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.StartSequence([][]float64{{0, 0, 0, 0, 0}, {90, 0, 0, 0, 100}}), test.ShouldBeNil)
	test.That(t, a.StartTicking(100), test.ShouldBeNil)

	deadline := time.Now().Add(5 * time.Second)
	for a.Ticks() < 3 && time.Now().Before(deadline) {
		mock.Add(10 * time.Millisecond)
	}
	test.That(t, a.Close(context.Background()), test.ShouldBeNil)

	closedAt := a.Ticks()
	pose := a.SnapshotPose()
	mock.Add(time.Second)
	test.That(t, a.Ticks(), test.ShouldEqual, closedAt)
	test.That(t, a.SnapshotPose(), test.ShouldResemble, pose)
	test.That(t, a.StartTicking(100), test.ShouldBeError, ErrClosed)
}

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var cmd map[string]interface{}
	test.That(t, json.Unmarshal([]byte(s), &cmd), test.ShouldBeNil)
	return cmd
}

func TestDoCommand(t *testing.T) {
	ctx := context.Background()
	a := newTestArm(t)

	resp, err := a.DoCommand(ctx, decode(t, `{"set_joint": {"index": 0, "value": "45"}}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["decision"], test.ShouldEqual, "accepted")
	test.That(t, resp["joints"], test.ShouldResemble, []float64{45, 0, 0, 0, 0})

	resp, err = a.DoCommand(ctx, decode(t, `{"end_position": true}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["y"], test.ShouldAlmostEqual, 26.5, 1e-6)
	test.That(t, resp["violates_workspace"], test.ShouldEqual, false)

	resp, err = a.DoCommand(ctx, decode(t, `{"start_sequence": [[0,0,0,0,0],[90,0,0,0,100]]}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["state"], test.ShouldEqual, "cycling")
	test.That(t, a.IsMoving(), test.ShouldBeTrue)

	resp, err = a.DoCommand(ctx, decode(t, `{"set_joint": {"index": 1, "value": 10}}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["decision"], test.ShouldEqual, "rejected")

	_, err = a.DoCommand(ctx, decode(t, `{"stop_sequence": true}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.IsMoving(), test.ShouldBeFalse)

	_, err = a.DoCommand(ctx, map[string]interface{}{"start_sequence": [][]float64{{5, 5, 5, 5, 5}}})
	test.That(t, err, test.ShouldBeNil)
	resp, err = a.DoCommand(ctx, decode(t, `{"snapshot": true}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp["joints"], test.ShouldResemble, []float64{5, 5, 5, 5, 5})

	_, err = a.DoCommand(ctx, decode(t, `{"reset": true}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.JointPositions(), test.ShouldResemble, referenceframe.JointState{})

	t.Run("errors", func(t *testing.T) {
		_, err := a.DoCommand(ctx, decode(t, `{"wave": true}`))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = a.DoCommand(ctx, decode(t, `{"set_joint": {"index": "first", "value": 1}}`))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = a.DoCommand(ctx, decode(t, `{"set_joint": 3}`))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = a.DoCommand(ctx, decode(t, `{"start_sequence": [[0,0,"x",0,0]]}`))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = a.DoCommand(ctx, decode(t, `{"start_sequence": [[0,0,0,0]]}`))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = a.DoCommand(ctx, decode(t, `{"set_joint": {"index": 8, "value": 1}}`))
		test.That(t, err, test.ShouldNotBeNil)

		before := a.SnapshotPose()
		for _, v := range []string{`"NaN"`, `"+Inf"`, `"-Inf"`} {
			resp, err := a.DoCommand(ctx, decode(t, `{"set_joint": {"index": 1, "value": `+v+`}}`))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, "not a finite number")
			test.That(t, resp, test.ShouldBeNil)
		}
		test.That(t, a.SnapshotPose(), test.ShouldResemble, before)
		test.That(t, a.ViolatesWorkspace(), test.ShouldBeFalse)
	})
}

func TestWorldPositionAfterYaw(t *testing.T) {
	a := newTestArm(t)
	_, err := a.RequestJointChange(referenceframe.ShoulderPitch, 90)
	test.That(t, err, test.ShouldBeNil)
	// pitch is clamped to 85
	test.That(t, a.JointPositions()[referenceframe.ShoulderPitch], test.ShouldEqual, 85.)
	_, err = a.RequestJointChange(referenceframe.BaseYaw, 90)
	test.That(t, err, test.ShouldBeNil)
	pos := a.WorldPosition()
	test.That(t, r3.Vector{X: pos.X, Z: pos.Z}.Norm(), test.ShouldAlmostEqual, 20.9201, 1e-4)
	test.That(t, pos.Z, test.ShouldAlmostEqual, 0, 1e-9)
}
