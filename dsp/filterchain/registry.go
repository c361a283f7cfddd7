package filterchain

import (
	"errors"
	"fmt"
	"slices"
)

// Filter is the contract shared by every filter in this module.
type Filter interface {
	Update(v int) int
	UpdateF(v int) float64
}

// Stage is a chain element: a filter that can snapshot its state.
type Stage interface {
	Filter
	State() StageState
	SetState(st StageState) error
}

// Adjuster is implemented by stages whose requested parameters may be
// clamped at construction.
type Adjuster interface {
	Adjusted() bool
}

// Factory builds one Stage from its parameters.
type Factory func(p Params) (Stage, error)

// Registry maps filter type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	// ErrUnknownType is returned when a stage references an unregistered
	// filter type.
	ErrUnknownType = errors.New("unknown filter type")

	// ErrDuplicateType is returned when a filter type is registered twice.
	ErrDuplicateType = errors.New("duplicate filter type")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given filter type.
func (r *Registry) Register(filterType string, factory Factory) error {
	if filterType == "" {
		return errors.New("empty filter type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[filterType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, filterType)
	}

	r.factories[filterType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(filterType string, factory Factory) {
	err := r.Register(filterType, factory)
	if err != nil {
		panic("filterchain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given filter type. Unregistered types
// yield an error wrapping ErrUnknownType.
func (r *Registry) Lookup(filterType string) (Factory, error) {
	factory, ok := r.factories[filterType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, filterType)
	}

	return factory, nil
}

// Build looks up the factory for p.Type and runs it.
func (r *Registry) Build(p Params) (Stage, error) {
	factory, err := r.Lookup(p.Type)
	if err != nil {
		return nil, err
	}

	return factory(p)
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
