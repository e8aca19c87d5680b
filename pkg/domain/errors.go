package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigError.
var ErrConfiguration = errors.New("configuration error")

// ErrUnknownAction is returned when an action name is not declared in the graph.
var ErrUnknownAction = errors.New("unknown action")

// ErrNoEligibleTransition is returned when an action has nothing to choose from.
var ErrNoEligibleTransition = errors.New("no eligible transition")

// ErrIllegalTransition is returned when a transition or action does not start at the current state.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrNoInitialState is returned when a graph without an initial state is asked to start an agent.
var ErrNoInitialState = errors.New("no initial state")

// ErrGraphSealed is returned when a built graph is modified.
var ErrGraphSealed = errors.New("graph is sealed")

// ConfigError describes a fatal problem in a behavior-graph document.
type ConfigError struct {
	Class   string // governed agent class, if known
	Element string // offending element path
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("finite state machine: %s: %s", e.Element, e.Reason)
	}
	return fmt.Sprintf("finite state machine for class %s: %s: %s", e.Class, e.Element, e.Reason)
}

// Is makes ConfigError match ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
