package tags

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-credits/pkg/interfaces"
)

// Registry is the thread-safe in-memory implementation of interfaces.TagRegistry.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.TagDefinition
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.TagDefinition),
	}
}

// Register stores a definition if the name is valid and not taken.
func (r *Registry) Register(def interfaces.TagDefinition) error {
	name := normalizeName(def.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if !isValidName(name) {
		return fmt.Errorf("%w: name %q contains invalid characters", ErrInvalidDefinition, def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: handler is required for %q", ErrInvalidDefinition, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, name)
	}

	def.Name = name
	r.definitions[name] = def
	return nil
}

// Get returns the stored definition.
func (r *Registry) Get(name string) (interfaces.TagDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[normalizeName(name)]
	return def, ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []interfaces.TagDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.TagDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns the registered tag names in order.
func (r *Registry) Names() []string {
	defs := r.List()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, normalizeName(name))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isValidName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

var _ interfaces.TagRegistry = (*Registry)(nil)
