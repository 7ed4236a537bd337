package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"go.viam.com/owiarm/components/arm/owi"
	"go.viam.com/owiarm/config"
	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/safety"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}

func decisionString(d safety.Decision) string {
	if d == safety.Accepted {
		return color.GreenString(d.String())
	}
	return color.RedString(d.String())
}

func violationString(v bool) string {
	if v {
		return color.RedString("inside base housing")
	}
	return color.GreenString("clear")
}

// loadConfig reads the global --config flag, falling back to the defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.Path(configFlag)
	if path == "" {
		return config.Default(), nil
	}
	return config.Read(path)
}

func newLogger(c *cli.Context, cfg *config.Config) logging.Logger {
	if c.Bool(debugFlag) {
		return logging.NewDebugLogger("owiarm")
	}
	logger := logging.NewLogger("owiarm")
	logger.SetLevel(cfg.ResolvedLogLevel())
	return logger
}

// newArm builds an arm from the global flags. The caller closes it.
func newArm(c *cli.Context) (*owi.Arm, *config.Config, logging.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(c, cfg)
	arm, err := owi.NewArm(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return arm, cfg, logger, nil
}

// keyframes returns the --keyframes file contents, or the config's keyframes.
func keyframes(c *cli.Context, cfg *config.Config) ([][]float64, error) {
	if path := c.Path(keyframesFlag); path != "" {
		return config.ReadKeyframes(path, cfg)
	}
	return cfg.Keyframes, nil
}

// defaultTicks is one full loop of kfs.
func defaultTicks(c *cli.Context, cfg *config.Config, kfs [][]float64) int {
	if n := c.Int(ticksFlag); n > 0 {
		return n
	}
	return cfg.ResolvedFramesPerSegment() * len(kfs)
}
