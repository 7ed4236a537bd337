package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/owiarm/config"
	"go.viam.com/owiarm/logging"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)
	err := app.Run(append([]string{"owiarm"}, args...))
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	test.That(t, os.WriteFile(p, []byte(body), 0o600), test.ShouldBeNil)
	return p
}

func TestPose(t *testing.T) {
	out, _, err := runApp(t, "pose", "--joints=0,30,0,0,50")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "shoulder pitch")
	test.That(t, out, test.ShouldContainSubstring, "accepted")
	test.That(t, out, test.ShouldContainSubstring, "Z:-10.5000")
	test.That(t, out, test.ShouldContainSubstring, "clear")

	_, _, err = runApp(t, "pose", "--joints=1,2,3")
	test.That(t, err, test.ShouldNotBeNil)

	out, _, err = runApp(t, "pose", "--force", "--joints=0,85,135,60,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "inside base housing")
}

func TestAnimate(t *testing.T) {
	dir := t.TempDir()
	kf := writeFile(t, dir, "poses.json", `[[0,0,0,0,0],[90,0,0,0,100]]`)

	out, _, err := runApp(t, "animate", "--keyframes", kf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "tick 100 segment 0->1")
	test.That(t, out, test.ShouldContainSubstring, "tick 200 segment 1->0")

	out, _, err = runApp(t, "animate", "--keyframes", kf, "--ticks", "50")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "tick 50 ")

	_, errOut, err := runApp(t, "animate")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "no keyframes")

	bad := writeFile(t, dir, "bad.json", `[[0,0,0,0,0.5]]`)
	_, _, err = runApp(t, "animate", "--keyframes", bad)
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = runApp(t, "animate", "--keyframes", kf, "--watch")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAnimateRealtime(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "owiarm.json", `{"tick_rate_hz": 200, "keyframes": [[0,0,0,0,0],[10,0,0,0,0]]}`)
	out, _, err := runApp(t, "--config", cfgPath, "animate", "--realtime", "--duration", "50ms")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "end effector")
}

func TestTrace(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "owiarm.json",
		`{"frames_per_segment": 20, "keyframes": [[0,0,0,0,0],[0,-80,-120,-55,0]]}`)
	png := filepath.Join(dir, "trace.png")

	out, errOut, err := runApp(t, "--config", cfgPath, "trace", "--out", png)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote 40 samples")
	test.That(t, errOut, test.ShouldContainSubstring, "entered the base housing")
	info, err := os.Stat(png)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	single := writeFile(t, dir, "single.json", `[[0,0,0,0,0]]`)
	_, _, err = runApp(t, "trace", "--keyframes", single, "--out", png)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFrames(t *testing.T) {
	out, _, err := runApp(t, "frames")
	test.That(t, err, test.ShouldBeNil)
	for _, name := range []string{"shoulder_yaw", "joint2", "joint3", "joint4", "jaw0", "jaw1", "end_effector", "world"} {
		test.That(t, out, test.ShouldContainSubstring, name)
	}
	test.That(t, out, test.ShouldContainSubstring, "Y:26.500")
	test.That(t, out, test.ShouldContainSubstring, "x:[-4,4] y:[0,4.5] z:[-12,4]")

	_, _, err = runApp(t, "frames", "--joints=1,2")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchema(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Contains(out, "frames_per_segment"), test.ShouldBeTrue)
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "owiarm.json", `{"frames_per_segment": -1}`)
	_, _, err := runApp(t, "--config", cfgPath, "pose", "--joints=0,0,0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestKeyframeWatcher(t *testing.T) {
	dir := t.TempDir()
	kf := writeFile(t, dir, "poses.json", `[[0,0,0,0,0]]`)
	w, err := newKeyframeWatcher(kf, config.Default(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	defer w.Close()

	test.That(t, os.WriteFile(kf, []byte(`[[0,0,0,0,0],[45,0,0,0,0]]`), 0o600), test.ShouldBeNil)
	// a save can surface as several events, some of which see a half written file
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case kfs := <-w.Updates():
			done = len(kfs) == 2
		case <-w.Errors():
		case <-timeout:
			t.Fatal("timed out waiting for keyframe reload")
		}
	}

	_, err = newKeyframeWatcher(filepath.Join(dir, "missing", "poses.json"), config.Default(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}
