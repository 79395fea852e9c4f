// Package stem defines the pivoting, telescoping stem with a wrist blade, and the registry of
// stem models that can be built from config.
package stem

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/referenceframe"
)

// Stem is the mechanism the planner drives. It owns the physical geometry and accepts commanded
// states; MoveToState does not wait for the mechanism to arrive.
type Stem interface {
	// CurrentState returns the mechanism's live pose.
	CurrentState(ctx context.Context) (referenceframe.StemState, error)
	// Dimensions returns the geometry snapshot for the current pose.
	Dimensions(ctx context.Context) (referenceframe.Dimensions, error)
	// MoveToState commands the mechanism toward state.
	MoveToState(ctx context.Context, state referenceframe.StemState) error
	Close(ctx context.Context) error
}

// Constructor builds a Stem from a model's config attributes.
type Constructor func(ctx context.Context, attributes map[string]interface{}, logger logging.Logger) (Stem, error)

// Registration describes how to validate and build one stem model.
type Registration struct {
	Constructor Constructor
	// Validate checks a model's attributes without building anything. Optional.
	Validate func(attributes map[string]interface{}) error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Registration{}
)

// RegisterModel registers a stem model. It panics if the model is registered twice or has no
// constructor.
func RegisterModel(model string, reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[model]; ok {
		panic(errors.Errorf("trying to register two stem models with the same name %q", model))
	}
	if reg.Constructor == nil {
		panic(errors.Errorf("cannot register a nil constructor for stem model %q", model))
	}
	registry[model] = reg
}

// LookupModel returns the registration of a model.
func LookupModel(model string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[model]
	return reg, ok
}

// Models lists the registered model names in order.
func Models() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	models := lo.Keys(registry)
	sort.Strings(models)
	return models
}

// ValidateAttributes runs a model's validator, if it has one.
func ValidateAttributes(model string, attributes map[string]interface{}) error {
	reg, ok := LookupModel(model)
	if !ok {
		return NewUnknownModelError(model)
	}
	if reg.Validate == nil {
		return nil
	}
	return reg.Validate(attributes)
}

// New builds a stem of the given model.
func New(ctx context.Context, model string, attributes map[string]interface{}, logger logging.Logger) (Stem, error) {
	reg, ok := LookupModel(model)
	if !ok {
		return nil, NewUnknownModelError(model)
	}
	s, err := reg.Constructor(ctx, attributes, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build stem model %q", model)
	}
	return s, nil
}

// NewUnknownModelError is used when a config names a model that was never registered.
func NewUnknownModelError(model string) error {
	return errors.Errorf("unknown stem model %q, registered models are %v", model, Models())
}
