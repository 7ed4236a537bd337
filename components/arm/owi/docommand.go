package owi

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"go.viam.com/owiarm/utils"
)

// DoCommand keys.
const (
	CommandSetJoint      = "set_joint"
	CommandStartSequence = "start_sequence"
	CommandStopSequence  = "stop_sequence"
	CommandEndPosition   = "end_position"
	CommandReset         = "reset"
	CommandSnapshot      = "snapshot"
)

// DoCommand runs loosely typed commands, as decoded from JSON. Exactly one command key is expected.
//
//	{"set_joint": {"index": 1, "value": 30}}
//	{"start_sequence": [[0,0,0,0,0],[90,0,0,0,100]]}
//	{"stop_sequence": true}
//	{"end_position": true}
//	{"reset": true}
//	{"snapshot": true}
func (a *Arm) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	if raw, ok := cmd[CommandSetJoint]; ok {
		args, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, errors.Wrap(utils.NewUnexpectedTypeError(map[string]interface{}{}, raw), CommandSetJoint)
		}
		index, err := cast.ToIntE(args["index"])
		if err != nil {
			return nil, errors.Wrap(err, "set_joint index")
		}
		value, err := cast.ToFloat64E(args["value"])
		if err != nil {
			return nil, errors.Wrap(err, "set_joint value")
		}
		decision, err := a.RequestJointChange(index, value)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"decision": decision.String(), "joints": a.SnapshotPose()}, nil
	}
	if raw, ok := cmd[CommandStartSequence]; ok {
		poses, err := toPoses(raw)
		if err != nil {
			return nil, errors.Wrap(err, CommandStartSequence)
		}
		if err := a.StartSequence(poses); err != nil {
			return nil, err
		}
		state, _ := a.PlaybackState()
		return map[string]interface{}{"state": state.String()}, nil
	}
	if _, ok := cmd[CommandStopSequence]; ok {
		return nil, a.StopSequence()
	}
	if _, ok := cmd[CommandEndPosition]; ok {
		pos := a.WorldPosition()
		return map[string]interface{}{
			"x":                  pos.X,
			"y":                  pos.Y,
			"z":                  pos.Z,
			"violates_workspace": a.ViolatesWorkspace(),
		}, nil
	}
	if _, ok := cmd[CommandReset]; ok {
		return nil, a.Reset()
	}
	if _, ok := cmd[CommandSnapshot]; ok {
		return map[string]interface{}{"joints": a.SnapshotPose()}, nil
	}
	return nil, utils.NewUnrecognizedCommandError(cmd)
}

func toPoses(raw interface{}) ([][]float64, error) {
	if poses, ok := raw.([][]float64); ok {
		return poses, nil
	}
	outer, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, err
	}
	poses := make([][]float64, 0, len(outer))
	for i, p := range outer {
		if pose, ok := p.([]float64); ok {
			poses = append(poses, pose)
			continue
		}
		inner, err := cast.ToSliceE(p)
		if err != nil {
			return nil, errors.Wrapf(err, "keyframe %d", i)
		}
		pose := make([]float64, 0, len(inner))
		for _, v := range inner {
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, errors.Wrapf(err, "keyframe %d", i)
			}
			pose = append(pose, f)
		}
		poses = append(poses, pose)
	}
	return poses, nil
}
