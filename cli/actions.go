package cli

import (
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/owiarm/components/arm/owi"
	"go.viam.com/owiarm/config"
	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
)

// PoseAction is the corresponding Action for 'pose'.
func PoseAction(c *cli.Context) error {
	arm, _, _, err := newArm(c)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer arm.Close(c.Context)

	joints := c.Float64Slice(jointsFlag)
	if len(joints) != referenceframe.DoF {
		return referenceframe.NewIncorrectDoFError(len(joints), referenceframe.DoF)
	}
	for i, v := range joints {
		if c.Bool(forceFlag) {
			if err := arm.ApplyJointDelta(i, v, arm.JointPositions()[i]); err != nil {
				return err
			}
			continue
		}
		d, err := arm.RequestJointChange(i, v)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "%-15s %8.2f  %s", referenceframe.JointNames[i], v, decisionString(d))
	}
	printArmState(c, arm)
	return nil
}

func printArmState(c *cli.Context, arm *owi.Arm) {
	pos := arm.WorldPosition()
	printf(c.App.Writer, "joints: %v", arm.SnapshotPose())
	printf(c.App.Writer, "end effector: X:%.4f Y:%.4f Z:%.4f (%s)", pos.X, pos.Y, pos.Z,
		violationString(arm.ViolatesWorkspace()))
}

// AnimateAction is the corresponding Action for 'animate'.
func AnimateAction(c *cli.Context) error {
	arm, cfg, logger, err := newArm(c)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer arm.Close(c.Context)

	kfs, err := keyframes(c, cfg)
	if err != nil {
		return err
	}
	if len(kfs) == 0 && !c.Bool(watchFlag) {
		warningf(c.App.ErrWriter, "no keyframes to play")
		return nil
	}
	if err := arm.StartSequence(kfs); err != nil {
		return err
	}
	if c.Bool(realtimeFlag) {
		return animateRealtime(c, arm, cfg, logger)
	}
	if c.Bool(watchFlag) {
		return errors.Errorf("--%s needs --%s", watchFlag, realtimeFlag)
	}

	ticks := defaultTicks(c, cfg, kfs)
	every := cfg.ResolvedFramesPerSegment()
	for i := 1; i <= ticks; i++ {
		if err := arm.Tick(); err != nil {
			return err
		}
		if i%every == 0 || i == ticks {
			_, cursor := arm.PlaybackState()
			printf(c.App.Writer, "tick %d segment %d->%d", i, cursor.Current, cursor.Next)
			printArmState(c, arm)
		}
	}
	return nil
}

func animateRealtime(c *cli.Context, arm *owi.Arm, cfg *config.Config, logger logging.Logger) error {
	var updates <-chan [][]float64
	var watchErrs <-chan error
	if c.Bool(watchFlag) {
		path := c.Path(keyframesFlag)
		if path == "" {
			return errors.Errorf("--%s needs --%s", watchFlag, keyframesFlag)
		}
		w, err := newKeyframeWatcher(path, cfg, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		updates, watchErrs = w.Updates(), w.Errors()
	}

	hz := cfg.ResolvedTickRateHz()
	if err := arm.StartTicking(hz); err != nil {
		return err
	}
	defer arm.StopTicking()

	var done <-chan time.Time
	if d := c.Duration(durationFlag); d > 0 {
		done = time.After(d)
	}
	status := time.NewTicker(time.Second)
	defer status.Stop()

	for {
		select {
		case <-c.Context.Done():
			return nil
		case <-done:
			printArmState(c, arm)
			return nil
		case <-status.C:
			printArmState(c, arm)
		case kfs := <-updates:
			printf(c.App.Writer, "keyframes changed, restarting with %d poses", len(kfs))
			if err := arm.StopSequence(); err != nil {
				return err
			}
			if err := arm.StartSequence(kfs); err != nil {
				return err
			}
		case err := <-watchErrs:
			warningf(c.App.ErrWriter, "%v", err)
		}
	}
}

// TraceAction is the corresponding Action for 'trace'.
func TraceAction(c *cli.Context) error {
	arm, cfg, _, err := newArm(c)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer arm.Close(c.Context)

	kfs, err := keyframes(c, cfg)
	if err != nil {
		return err
	}
	if len(kfs) < 2 {
		return errors.New("trace needs at least two keyframes")
	}
	if err := arm.StartSequence(kfs); err != nil {
		return err
	}
	samples, err := recordTrace(arm, defaultTicks(c, cfg, kfs))
	if err != nil {
		return err
	}
	out := c.Path(outFlag)
	if err := writeTracePlot(out, samples, cfg.ResolvedPlaneY()); err != nil {
		return err
	}
	violations := 0
	for _, s := range samples {
		if s.Violates {
			violations++
		}
	}
	if violations > 0 {
		warningf(c.App.ErrWriter, "end effector entered the base housing on %d of %d ticks", violations, len(samples))
	}
	printf(c.App.Writer, "wrote %d samples to %s", len(samples), out)
	return nil
}

// FramesAction is the corresponding Action for 'frames'.
func FramesAction(c *cli.Context) error {
	arm, _, _, err := newArm(c)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer arm.Close(c.Context)

	if joints := c.Float64Slice(jointsFlag); len(joints) > 0 {
		if len(joints) != referenceframe.DoF {
			return referenceframe.NewIncorrectDoFError(len(joints), referenceframe.DoF)
		}
		for i, v := range joints {
			if err := arm.ApplyJointDelta(i, v, arm.JointPositions()[i]); err != nil {
				return err
			}
		}
	}
	table, err := framesTable(arm)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", table)
	printf(c.App.Writer, "%s", arm.Housing())
	return nil
}

// SchemaAction is the corresponding Action for 'schema'.
func SchemaAction(c *cli.Context) error {
	out, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
