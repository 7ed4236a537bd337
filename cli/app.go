// Package cli contains the owiarm command line: posing the arm, playing keyframes, tracing the end effector and
// printing the frame chain.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag    = "config"
	debugFlag     = "debug"
	jointsFlag    = "joints"
	keyframesFlag = "keyframes"
	ticksFlag     = "ticks"
	realtimeFlag  = "realtime"
	durationFlag  = "duration"
	watchFlag     = "watch"
	outFlag       = "out"
	forceFlag     = "force"
)

func newApp() *cli.App {
	keyframeFlags := []cli.Flag{
		&cli.PathFlag{
			Name:    keyframesFlag,
			Aliases: []string{"k"},
			Usage:   "read keyframes from `FILE` instead of the config",
		},
		&cli.IntFlag{
			Name:  ticksFlag,
			Usage: "number of ticks to run, defaults to one full loop",
		},
	}
	return &cli.App{
		Name:            "owiarm",
		Usage:           "drive the OWI arm kinematic model",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "pose",
				Usage:     "move the joints through the safety gate and print the end effector",
				UsageText: "owiarm pose --joints=yaw,pitch2,pitch3,pitch4,gripper",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     jointsFlag,
						Aliases:  []string{"j"},
						Usage:    "five joint values, degrees then gripper percent",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  forceFlag,
						Usage: "bypass the safety gate",
					},
				},
				Action: PoseAction,
			},
			{
				Name:  "animate",
				Usage: "play the keyframe sequence",
				Flags: append(append([]cli.Flag{}, keyframeFlags...),
					&cli.BoolFlag{
						Name:  realtimeFlag,
						Usage: "tick at the configured rate instead of as fast as possible",
					},
					&cli.DurationFlag{
						Name:  durationFlag,
						Usage: "stop real time playback after this long, zero runs until interrupted",
					},
					&cli.BoolFlag{
						Name:  watchFlag,
						Usage: "restart playback whenever the keyframes file changes (real time only)",
					},
				),
				Action: AnimateAction,
			},
			{
				Name:  "trace",
				Usage: "plot the end effector height and depth over a playback",
				Flags: append(append([]cli.Flag{}, keyframeFlags...),
					&cli.PathFlag{
						Name:     outFlag,
						Aliases:  []string{"o"},
						Usage:    "write the plot to `FILE` (png, svg or pdf)",
						Required: true,
					},
				),
				Action: TraceAction,
			},
			{
				Name:  "frames",
				Usage: "print the world pose of every frame",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:    jointsFlag,
						Aliases: []string{"j"},
						Usage:   "five joint values to apply first",
					},
				},
				Action: FramesAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the config file",
				Action: SchemaAction,
			},
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
