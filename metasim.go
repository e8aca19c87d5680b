package metasim

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/metasim/internal/logging"
	"github.com/aretw0/metasim/internal/runtime"
	"github.com/aretw0/metasim/pkg/choice"
	"github.com/aretw0/metasim/pkg/document"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Library is the high-level entry point: the loaded choice models, the
// registry they are bound through, and the behavior graph of each agent class.
// Once loading is done a Library is read-only and may be shared by many agents.
type Library struct {
	Catalog  *choice.Catalog
	Registry *registry.Registry
	Graphs   map[string]*domain.Graph

	logger   *slog.Logger
	hooks    domain.Hooks
	resolver runtime.ClassResolver
}

// Option defines a functional option for configuring the Library.
type Option func(*Library)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// WithRegistry replaces the registry built from the catalog.
// Trees in the catalog are still registered into it.
func WithRegistry(r *registry.Registry) Option {
	return func(l *Library) {
		l.Registry = r
	}
}

// WithHooks registers decision observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(l *Library) {
		l.hooks = l.hooks.Merge(hooks)
	}
}

// WithClassResolver sets how graph documents' class attributes are resolved.
func WithClassResolver(r runtime.ClassResolver) Option {
	return func(l *Library) {
		l.resolver = r
	}
}

// New creates an empty Library.
func New(opts ...Option) *Library {
	l := &Library{
		Catalog: choice.NewCatalog(),
		Graphs:  make(map[string]*domain.Graph),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	if l.Registry == nil {
		l.Registry = registry.NewRegistry(registry.WithLogger(l.logger))
	}
	return l
}

// Load reads choice-model documents first, then graph documents, so that
// graphs can bind the models by name.
func Load(modelPaths, graphPaths []string, opts ...Option) (*Library, error) {
	l := New(opts...)
	if err := l.LoadChoiceModels(modelPaths...); err != nil {
		return nil, err
	}
	if err := l.LoadGraphs(graphPaths...); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadChoiceModels decodes every choice model in the given documents into the
// catalog and registers each under its name.
func (l *Library) LoadChoiceModels(paths ...string) error {
	for _, path := range paths {
		trees, err := LoadChoiceModels(path)
		if err != nil {
			return err
		}
		for _, t := range trees {
			if err := l.Catalog.Add(t); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := l.Registry.RegisterTree(t); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			l.logger.Debug("choice model loaded", "name", t.Name(), "path", path, "nodes", t.Len())
		}
	}
	return nil
}

// LoadGraphs builds the graphs in the given documents. Choice models must be
// loaded beforehand for actions to bind them.
func (l *Library) LoadGraphs(paths ...string) error {
	opts := []runtime.Option{
		runtime.WithLogger(l.logger),
		runtime.WithRegistry(l.Registry),
		runtime.WithClassResolver(l.resolver),
	}
	for _, path := range paths {
		root, err := document.ParseFile(path)
		if err != nil {
			return err
		}
		graphs, err := runtime.BuildGraphs(root, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for class, g := range graphs {
			if _, dup := l.Graphs[class]; dup {
				return fmt.Errorf("%s: %w", path, &domain.ConfigError{
					Class: class, Element: root.Path(), Reason: "class governed by more than one finite state machine",
				})
			}
			l.Graphs[class] = g
			l.logger.Info("behavior graph loaded", "class", class, "path", path, "warnings", len(g.Warnings()))
		}
	}
	return nil
}

// Graph returns the graph governing class.
func (l *Library) Graph(class string) (*domain.Graph, bool) {
	g, ok := l.Graphs[class]
	return g, ok
}

// Classes returns the governed agent classes, sorted.
func (l *Library) Classes() []string {
	classes := make([]string, 0, len(l.Graphs))
	for c := range l.Graphs {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// Decider returns a decider wired to the library's logger and hooks.
func (l *Library) Decider() *runtime.Decider {
	return runtime.NewDecider(runtime.WithLogger(l.logger), runtime.WithHooks(l.hooks))
}

// NewAgent places a new agent of class at its graph's initial state.
func (l *Library) NewAgent(class string) (*Agent, error) {
	g, ok := l.Graph(class)
	if !ok {
		return nil, fmt.Errorf("no behavior graph for class %q", class)
	}
	cur, err := domain.NewCursor(g)
	if err != nil {
		return nil, err
	}
	return &Agent{Cursor: cur, decider: l.Decider()}, nil
}

// LoadChoiceModels decodes the choice models held by one document.
func LoadChoiceModels(path string) ([]*choice.Tree, error) {
	root, err := document.ParseFile(path)
	if err != nil {
		return nil, err
	}
	trees, err := choice.DecodeAll(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trees, nil
}

// LoadInput reads attribute bundles from a YAML or JSON file.
func LoadInput(path string) (choice.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	input := choice.Input{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &input)
	} else {
		err = yaml.Unmarshal(data, &input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return input, nil
}
