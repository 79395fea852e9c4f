package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

const simConfig = `{
	"frequency_hz": 200,
	"mechanism": {
		"model": "fake",
		"attributes": {
			"telescope_origin": {"x": 0, "y": 10},
			"umbrella_length": 10,
			"umbrella_height": 2,
			"drive_base": {"x": 0, "y": 0, "width": 40, "height": 10},
			"allowed_bounds": {"x": 0, "y": 0, "width": 400, "height": 200},
			"initial_state": {"pivot_degrees": 0, "wrist_degrees": 0, "telescope_length": 30}
		}
	},
	"logging": {"level": "error"}
}`

func setup(t *testing.T) (string, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stem.json")
	test.That(t, os.WriteFile(path, []byte(simConfig), 0o600), test.ShouldBeNil)
	return path, &bytes.Buffer{}, &bytes.Buffer{}
}

func TestStepAction(t *testing.T) {
	path, out, errOut := setup(t)
	app := NewApp(out, errOut)

	err := app.Run([]string{"stemsim", "--config", path, "step", "--ticks", "2", "--pivot", "30", "--telescope", "50"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "target: {pivot: 30.000°, wrist: 0.000°, telescope: 50.000}")
	test.That(t, out.String(), test.ShouldContainSubstring, "30.000")
	test.That(t, out.String(), test.ShouldContainSubstring, "50.000")
	test.That(t, out.String(), test.ShouldContainSubstring, "NONE")
	test.That(t, out.String(), test.ShouldNotContainSubstring, "DRIVE_BASE")
}

func TestStepActionRejectedTarget(t *testing.T) {
	path, out, errOut := setup(t)
	app := NewApp(out, errOut)

	err := app.Run([]string{"stemsim", "-c", path, "step", "--ticks", "1", "--pivot", "-20"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "target: {pivot: 0.000°, wrist: 0.000°, telescope: 30.000}")
}

func TestStepActionErrors(t *testing.T) {
	path, out, errOut := setup(t)

	err := NewApp(out, errOut).Run([]string{"stemsim", "-c", path, "step", "--ticks", "-1"})
	test.That(t, err, test.ShouldNotBeNil)

	err = NewApp(out, errOut).Run([]string{"stemsim", "-c", filepath.Join(t.TempDir(), "nope.json"), "step"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunAction(t *testing.T) {
	path, out, errOut := setup(t)
	app := NewApp(out, errOut)

	err := app.Run([]string{"stemsim", "-c", path, "run", "--ticks", "3", "--wrist", "15"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "ticks: 3")
	test.That(t, out.String(), test.ShouldContainSubstring, "state: {pivot: 0.000°, wrist: 15.000°, telescope: 30.000} (NONE)")
}
