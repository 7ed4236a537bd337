package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/owiarm/components/arm/owi"
	"go.viam.com/owiarm/kinematics"
	"go.viam.com/owiarm/spatialmath"
	"go.viam.com/owiarm/utils"
)

// framesTable renders one row per scene graph frame with its parent and world pose.
func framesTable(arm *owi.Arm) (string, error) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Parent", "World Translation", "World Orientation"})
	frames := arm.Frames()
	for i, f := range frames {
		pose, err := arm.FramePose(i)
		if err != nil {
			return "", err
		}
		parent := "world"
		if f.Parent != kinematics.World {
			parent = frames[f.Parent].Name
		}
		tra := pose.Point()
		aa := spatialmath.QuatToR4AA(pose.Orientation())
		t.AppendRow(table.Row{
			i,
			f.Name,
			parent,
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf("Theta:%.2f, RX:%.3f, RY:%.3f, RZ:%.3f", utils.RadToDeg(aa.Theta), aa.RX, aa.RY, aa.RZ),
		})
	}
	return t.Render(), nil
}

// traceSample is the end effector position after one tick.
type traceSample struct {
	Tick     int
	X, Y, Z  float64
	Violates bool
}

func recordTrace(arm *owi.Arm, ticks int) ([]traceSample, error) {
	samples := make([]traceSample, 0, ticks)
	for i := 1; i <= ticks; i++ {
		if err := arm.Tick(); err != nil {
			return nil, err
		}
		pos := arm.WorldPosition()
		samples = append(samples, traceSample{Tick: i, X: pos.X, Y: pos.Y, Z: pos.Z, Violates: arm.ViolatesWorkspace()})
	}
	return samples, nil
}

// writeTracePlot draws the end effector height and depth against tick, with the safety plane as a reference line.
// The image format follows the file extension.
func writeTracePlot(path string, samples []traceSample, planeY float64) error {
	if len(samples) == 0 {
		return errors.New("no samples to plot")
	}
	ys := make(plotter.XYs, len(samples))
	zs := make(plotter.XYs, len(samples))
	for i, s := range samples {
		ys[i] = plotter.XY{X: float64(s.Tick), Y: s.Y}
		zs[i] = plotter.XY{X: float64(s.Tick), Y: s.Z}
	}

	p := plot.New()
	p.Title.Text = "End effector"
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "position"
	p.Add(plotter.NewGrid())
	if err := plotutil.AddLines(p, "height (Y)", ys, "depth (Z)", zs); err != nil {
		return errors.Wrap(err, "cannot add trace lines")
	}
	plane := plotter.NewFunction(func(float64) float64 { return planeY })
	plane.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(plane)
	p.Legend.Add("safety plane", plane)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "cannot save plot to %q", path)
	}
	return nil
}
