package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/domain"
)

// Decider resolves actions for agents and moves their cursors.
// A single Decider may serve many agents concurrently; each cursor must be
// driven by one goroutine at a time.
type Decider struct {
	logger *slog.Logger
	hooks  domain.Hooks
	now    func() time.Time
}

// NewDecider creates a Decider. It honors WithLogger, WithHooks and WithClock.
func NewDecider(opts ...Option) *Decider {
	o := newOptions(opts)
	return &Decider{
		logger: o.logger,
		hooks:  o.hooks,
		now:    o.now,
	}
}

// Choose resolves actionName for the agent without moving it.
// The override model, when non-nil, replaces the action's default for this call.
func (d *Decider) Choose(cur *domain.Cursor, actionName string, input choice.Input, rng choice.RandomSource, override domain.ChoiceModel) (*domain.Action, *domain.Transition, error) {
	g := cur.Graph()
	a, ok := g.Action(actionName)
	if !ok {
		return nil, nil, fmt.Errorf("class %s: action %q: %w", g.Class, actionName, domain.ErrUnknownAction)
	}
	if a.State() != cur.Current() {
		return nil, nil, fmt.Errorf("class %s: action %q is bound to %q, agent is in %q: %w",
			g.Class, actionName, a.State().Name, cur.Current().Name, domain.ErrIllegalTransition)
	}

	t, err := a.Choose(input, rng, override)
	if err != nil {
		return nil, nil, fmt.Errorf("class %s: %w", g.Class, err)
	}
	return a, t, nil
}

// Decide resolves actionName with its default model and advances the cursor
// along the chosen transition.
func (d *Decider) Decide(ctx context.Context, cur *domain.Cursor, actionName string, input choice.Input, rng choice.RandomSource) (*domain.Transition, error) {
	return d.DecideWith(ctx, cur, actionName, input, rng, nil)
}

// DecideWith is Decide with a per-call override model.
func (d *Decider) DecideWith(ctx context.Context, cur *domain.Cursor, actionName string, input choice.Input, rng choice.RandomSource, override domain.ChoiceModel) (*domain.Transition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, t, err := d.Choose(cur, actionName, input, rng, override)
	if err != nil {
		d.logger.Debug("decision failed", "class", cur.Graph().Class, "action", actionName, "error", err)
		return nil, err
	}

	from := cur.Current().Name
	if err := cur.Advance(t); err != nil {
		return nil, err
	}

	model := a.ModelName()
	if override != nil {
		model = fmt.Sprintf("%T", override)
	}

	d.logger.Debug("decision",
		"class", cur.Graph().Class,
		"action", a.Name,
		"model", model,
		"transition", t.Name,
		"from", from,
		"to", t.To.Name,
	)

	if d.hooks.OnDecision != nil {
		d.hooks.OnDecision(ctx, &domain.DecisionEvent{
			Timestamp:  d.now(),
			Class:      cur.Graph().Class,
			Action:     a.Name,
			Model:      model,
			From:       from,
			Transition: t.Name,
			To:         t.To.Name,
			Contingent: t.Contingent,
			Eligible:   len(a.Eligible()),
		})
	}
	return t, nil
}
