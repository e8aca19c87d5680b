package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/domain"
)

// Random is the name of the fallback uniform chooser. No choice tree may use it.
const Random = "random"

// ErrReservedName is returned when a choice tree is named after a built-in model.
var ErrReservedName = errors.New("reserved choice model name")

// Factory builds a choice model. It is called once per action bound to the name.
type Factory func() domain.ChoiceModel

// Registry maps choice-model names to factories.
type Registry struct {
	mu     sync.RWMutex
	models map[string]Factory
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger handed to the logit models the registry builds.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry holding only the random fallback.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		models: make(map[string]Factory),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Register(Random, func() domain.ChoiceModel { return UniformRandom{} })
	return r
}

// NewDefault creates a registry with the random fallback and a logit model
// for every tree in the catalog, registered under the tree's name.
// Trees with a reserved name are skipped.
func NewDefault(catalog *choice.Catalog, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	if catalog == nil {
		return r
	}
	for _, name := range catalog.Names() {
		tree, _ := catalog.Get(name)
		_ = r.RegisterTree(tree)
	}
	return r
}

// Register adds a factory.
// If a model with the same name exists, it is overwritten.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[name] = f
}

// RegisterTree registers a logit model for tree under its name.
func (r *Registry) RegisterTree(tree *choice.Tree) error {
	if tree.Name() == Random {
		return fmt.Errorf("choice model %q: %w", tree.Name(), ErrReservedName)
	}
	logger := r.logger
	r.Register(tree.Name(), func() domain.ChoiceModel { return &Logit{Tree: tree, Logger: logger} })
	return nil
}

// Resolve builds the named model. It reports false for unknown names.
func (r *Registry) Resolve(name string) (domain.ChoiceModel, bool) {
	r.mu.RLock()
	f, ok := r.models[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for n := range r.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
