package dbexec

import (
	"fmt"
)

// ParamType describes the driver-facing type of a parameter value.
// Drivers that infer types from Go values may ignore it.
type ParamType int

const (
	// ParamAuto lets the driver infer the type from the Go value.
	ParamAuto ParamType = iota

	// ParamString forces a textual binding.
	ParamString

	// ParamInt64 forces a 64-bit integer binding.
	ParamInt64

	// ParamFloat64 forces a double-precision binding.
	ParamFloat64

	// ParamBool forces a boolean binding.
	ParamBool

	// ParamBytes forces a raw byte binding.
	ParamBytes

	// ParamTime forces a timestamp binding.
	ParamTime

	// ParamDecimal forces an exact-numeric binding.
	ParamDecimal
)

// Parameter is one named input value bound to a command before execution.
type Parameter struct {
	Name  string
	Value any
	Type  ParamType
}

// ParameterSet is an ordered, name-addressable collection of parameters.
//
// Ownership: the caller owns the set. A command runner borrows it for the
// duration of one execution attempt and must clear the driver-level
// projection of the set after every attempt. A ParameterSet must not be
// shared by two in-flight operations; it carries no internal locking.
type ParameterSet struct {
	params []Parameter
	index  map[string]int
}

// NewParameterSet returns an empty parameter set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{index: make(map[string]int)}
}

// Add appends a parameter. Adding a name that is already present fails with
// ErrDuplicateParameter.
func (s *ParameterSet) Add(name string, value any) error {
	return s.AddTyped(name, value, ParamAuto)
}

// AddTyped appends a parameter with an explicit driver type.
func (s *ParameterSet) AddTyped(name string, value any, typ ParamType) error {
	if name == "" {
		return fmt.Errorf("parameter name is required: %w", ErrInvalidConfig)
	}
	if _, exists := s.index[name]; exists {
		return fmt.Errorf("parameter %q: %w", name, ErrDuplicateParameter)
	}
	s.index[name] = len(s.params)
	s.params = append(s.params, Parameter{Name: name, Value: value, Type: typ})
	return nil
}

// Set upserts a parameter, preserving its position when the name exists.
func (s *ParameterSet) Set(name string, value any) {
	if i, ok := s.index[name]; ok {
		s.params[i].Value = value
		return
	}
	s.index[name] = len(s.params)
	s.params = append(s.params, Parameter{Name: name, Value: value, Type: ParamAuto})
}

// Get returns the parameter with the given name.
func (s *ParameterSet) Get(name string) (Parameter, bool) {
	if s == nil {
		return Parameter{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Parameter{}, false
	}
	return s.params[i], true
}

// Remove deletes the named parameter, preserving the order of the rest.
func (s *ParameterSet) Remove(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.params = append(s.params[:i], s.params[i+1:]...)
	delete(s.index, name)
	for n, j := range s.index {
		if j > i {
			s.index[n] = j - 1
		}
	}
	return true
}

// Len returns the number of parameters in the set.
func (s *ParameterSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.params)
}

// Each calls fn for every parameter in insertion order. Iteration stops at
// the first error, which is returned.
func (s *ParameterSet) Each(fn func(Parameter) error) error {
	if s == nil {
		return nil
	}
	for _, p := range s.params {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all parameters from the set.
func (s *ParameterSet) Clear() {
	s.params = s.params[:0]
	for name := range s.index {
		delete(s.index, name)
	}
}
