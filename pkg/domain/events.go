package domain

import (
	"context"
	"time"
)

// DecisionEvent records one resolved action.
type DecisionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Class      string    `json:"class"`
	Action     string    `json:"action"`
	Model      string    `json:"model"`
	From       string    `json:"from"`
	Transition string    `json:"transition"`
	To         string    `json:"to"`
	Contingent bool      `json:"contingent,omitempty"`
	Eligible   int       `json:"eligible"`
}

// Hooks defines callbacks for decision observability.
type Hooks struct {
	OnDecision func(context.Context, *DecisionEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	switch {
	case h.OnDecision == nil:
		return other
	case other.OnDecision == nil:
		return h
	}
	first, second := h.OnDecision, other.OnDecision
	return Hooks{OnDecision: func(ctx context.Context, e *DecisionEvent) {
		first(ctx, e)
		second(ctx, e)
	}}
}
