// Package fake implements a fake stem that reaches every commanded state instantly.
package fake

import (
	"context"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/igknighters/stemsolver/components/stem"
	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/referenceframe"
	"github.com/igknighters/stemsolver/spatialmath"
)

// Model is the name used to refer to the fake stem model.
const Model = "fake"

// Point is a point as written in config.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rectangle is a rectangle as written in config, centered on X, Y.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rectangle) convert() spatialmath.Rectangle {
	return spatialmath.NewRectangle(r2.Point{X: r.X, Y: r.Y}, r.Width, r.Height)
}

// Config is used for converting config attributes.
type Config struct {
	TelescopeOrigin Point                    `json:"telescope_origin"`
	UmbrellaLength  float64                  `json:"umbrella_length"`
	UmbrellaHeight  float64                  `json:"umbrella_height"`
	DriveBase       Rectangle                `json:"drive_base"`
	AllowedBounds   Rectangle                `json:"allowed_bounds"`
	InitialState    referenceframe.StemState `json:"initial_state"`
}

// Geometry converts the config to the stem's static geometry.
func (conf *Config) Geometry() referenceframe.Geometry {
	return referenceframe.Geometry{
		TelescopeOrigin: r2.Point{X: conf.TelescopeOrigin.X, Y: conf.TelescopeOrigin.Y},
		UmbrellaLength:  conf.UmbrellaLength,
		UmbrellaHeight:  conf.UmbrellaHeight,
		DriveBase:       conf.DriveBase.convert(),
		AllowedBounds:   conf.AllowedBounds.convert(),
	}
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate() error {
	if err := conf.Geometry().Validate(); err != nil {
		return err
	}
	return errors.Wrap(conf.InitialState.Validate(), "initial_state")
}

// DecodeConfig converts a raw attribute map into a Config.
func DecodeConfig(attributes map[string]interface{}) (*Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &conf,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "cannot decode fake stem attributes")
	}
	return &conf, nil
}

func init() {
	stem.RegisterModel(Model, stem.Registration{
		Constructor: NewStemFromAttributes,
		Validate: func(attributes map[string]interface{}) error {
			conf, err := DecodeConfig(attributes)
			if err != nil {
				return err
			}
			return conf.Validate()
		},
	})
}

// NewStemFromAttributes builds a fake stem from config attributes.
func NewStemFromAttributes(
	ctx context.Context,
	attributes map[string]interface{},
	logger logging.Logger,
) (stem.Stem, error) {
	conf, err := DecodeConfig(attributes)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return NewStem(conf.Geometry(), conf.InitialState, logger), nil
}

// NewStem returns a fake stem resting at initial.
func NewStem(geometry referenceframe.Geometry, initial referenceframe.StemState, logger logging.Logger) *Stem {
	return &Stem{
		logger:   logger,
		geometry: geometry,
		state:    initial,
	}
}

// Stem is a fake stem that can simply read and set its state.
type Stem struct {
	logger logging.Logger

	mu          sync.RWMutex
	geometry    referenceframe.Geometry
	state       referenceframe.StemState
	lastCommand referenceframe.StemState
	moveCount   int
	closed      bool
}

// CurrentState returns the set state.
func (s *Stem) CurrentState(ctx context.Context) (referenceframe.StemState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return referenceframe.StemState{}, errClosed
	}
	return s.state, nil
}

// Dimensions returns the configured geometry with the set state.
func (s *Stem) Dimensions(ctx context.Context) (referenceframe.Dimensions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return referenceframe.Dimensions{}, errClosed
	}
	return referenceframe.NewDimensions(s.geometry, s.state), nil
}

// MoveToState sets the state. Non-finite commands are refused.
func (s *Stem) MoveToState(ctx context.Context, state referenceframe.StemState) error {
	if !state.IsFinite() {
		return errors.Errorf("refusing to move to non-finite state %v", state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.state = state
	s.lastCommand = state
	s.moveCount++
	return nil
}

// SetState moves the fake stem without counting a command, as if something outside the planner
// had moved it.
func (s *Stem) SetState(state referenceframe.StemState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// SetGeometry replaces the static geometry.
func (s *Stem) SetGeometry(geometry referenceframe.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geometry = geometry
}

// MoveCount returns how many commands were accepted.
func (s *Stem) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveCount
}

// LastCommand returns the most recently accepted command.
func (s *Stem) LastCommand() referenceframe.StemState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCommand
}

// Close marks the stem closed; every later call fails.
func (s *Stem) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var errClosed = errors.New("fake stem is closed")
