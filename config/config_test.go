package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	// register the fake stem model.
	_ "github.com/igknighters/stemsolver/components/stem/fake"
	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/referenceframe"
)

const testConfig = `{
	"frequency_hz": 50,
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
	"target": {"pivot_degrees": 30, "wrist_degrees": 15, "telescope_length": ${STEM_TELESCOPE}},
	"logging": {"level": "debug"}
}`

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
}

func TestRead(t *testing.T) {
	t.Setenv("STEM_TELESCOPE", "50")
	path := filepath.Join(t.TempDir(), "stem.json")
	writeConfig(t, path, testConfig)

	cfg, err := Read(context.Background(), path, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, cfg.LoopConfig().Frequency, test.ShouldEqual, 50.)
	test.That(t, cfg.Mechanism.Model, test.ShouldEqual, "fake")
	test.That(t, cfg.Target, test.ShouldNotBeNil)
	test.That(t, *cfg.Target, test.ShouldResemble, referenceframe.NewStemState(30, 15, 50))
	test.That(t, cfg.Logging.Level, test.ShouldEqual, "debug")

	_, err = Read(context.Background(), filepath.Join(t.TempDir(), "missing.json"), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromReaderErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := FromReader(context.Background(), "", strings.NewReader(`{"frequency_hz": 10, "bogus": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode")

	_, err = FromReader(context.Background(), "", strings.NewReader(`{"frequency_hz": 10`), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		FrequencyHz: 500,
		Mechanism:   Mechanism{Model: "no-such-model"},
		Target:      &referenceframe.StemState{TelescopeLength: -1},
		Logging:     Logging{Level: "loud", MaxSizeMB: -1},
	}
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	for _, msg := range []string{"frequency_hz", "unknown stem model", "target", "loud", "max_size_mb"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, msg)
	}

	cfg = Config{FrequencyHz: 10, Logging: Logging{Level: "info"}}
	err = cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "model")
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stem.log")
	conf := Logging{Level: "warn", File: path}
	logger, closer, err := conf.NewLogger("stemsim")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.WARN)

	logger.Info("quiet")
	logger.Warn("loud")
	test.That(t, logger.Sync(), test.ShouldBeNil)
	test.That(t, closer.Close(), test.ShouldBeNil)

	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "loud")
	test.That(t, string(contents), test.ShouldNotContainSubstring, "quiet")

	conf.Level = "debug"
	test.That(t, conf.Apply(logger), test.ShouldBeNil)
	test.That(t, logger.GetLevel(), test.ShouldEqual, logging.DEBUG)

	conf.Level = "nope"
	_, _, err = conf.NewLogger("stemsim")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, conf.Apply(logger), test.ShouldNotBeNil)
}

func TestWatcher(t *testing.T) {
	t.Setenv("STEM_TELESCOPE", "50")
	path := filepath.Join(t.TempDir(), "stem.json")
	writeConfig(t, path, testConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	watcher, err := NewWatcher(ctx, path, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, watcher.Close(), test.ShouldBeNil)
	}()

	// an invalid edit is skipped, the next valid one is delivered
	writeConfig(t, path, `{"frequency_hz": 0}`)
	writeConfig(t, path, strings.Replace(testConfig, "${STEM_TELESCOPE}", "60", 1))

	select {
	case cfg := <-watcher.Config():
		test.That(t, cfg.Target, test.ShouldNotBeNil)
		test.That(t, cfg.Target.TelescopeLength, test.ShouldEqual, 60.)
	case <-ctx.Done():
		t.Fatal("timed out waiting for config change")
	}
}
