// Package tools holds the analysis tool registry: a thread-safe catalogue
// of types.Tool implementations keyed by their stable Key(), looked up by
// the workflow layer when it needs to run spc/pareto/histogram/boxplot (or
// any future tool) against a provider's DataContext.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// Registry holds all available tools and provides lookup functionality.
// It is thread-safe and supports registration at runtime.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]types.Tool
	byCategory map[types.ToolCategory][]types.Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:      make(map[string]types.Tool),
		byCategory: make(map[types.ToolCategory][]types.Tool),
	}
}

// Register adds a tool to the registry. Returns an error if a tool with the
// same key already exists, or if the tool reports an empty key.
func (r *Registry) Register(tool types.Tool) error {
	if tool.Key() == "" {
		return ErrToolKeyEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Key()]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Key())
	}

	r.tools[tool.Key()] = tool
	r.byCategory[tool.Category()] = append(r.byCategory[tool.Category()], tool)

	logging.ToolsDebug("Registered tool: %s (category=%s)", tool.Key(), tool.Category())
	return nil
}

// MustRegister registers a tool and panics on error. Use for static
// registration at init time.
func (r *Registry) MustRegister(tool types.Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Key(), err))
	}
}

// Get returns a tool by key, or nil if not found.
func (r *Registry) Get(key string) types.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[key]
}

// Has returns true if a tool with the given key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[key]
	return ok
}

// GetByCategory returns all tools in a category, sorted by key for
// deterministic iteration.
func (r *Registry) GetByCategory(category types.ToolCategory) []types.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Tool, len(r.byCategory[category]))
	copy(out, r.byCategory[category])
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// All returns all registered tools, sorted by key.
func (r *Registry) All() []types.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Keys returns all registered tool keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.tools))
	for k := range r.tools {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Run looks up a tool by key, validates data against it, and runs it.
// A validation failure produces a types.Result with Success false rather
// than an error; an unknown key returns ErrUnknownTool, which callers use
// to distinguish a routing mistake from a domain-level failure.
func (r *Registry) Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error) {
	tool := r.Get(key)
	if tool == nil {
		return types.Result{}, fmt.Errorf("%w: %s", types.ErrUnknownTool, key)
	}

	if ok, errs := tool.Validate(data, config); !ok {
		return types.Failure(errs...), nil
	}

	start := time.Now()
	result := tool.Run(ctx, data, config)
	logging.ToolsDebug("tool %s completed in %v (success=%v)", key, time.Since(start), result.Success)
	return result, nil
}

// Global registry instance for convenience.
var globalRegistry = NewRegistry()

// Global returns the global tool registry.
func Global() *Registry {
	return globalRegistry
}

// Register adds a tool to the global registry.
func Register(tool types.Tool) error {
	return globalRegistry.Register(tool)
}

// MustRegisterGlobal registers a tool in the global registry, panicking on error.
func MustRegisterGlobal(tool types.Tool) {
	globalRegistry.MustRegister(tool)
}

// Get retrieves a tool from the global registry.
func Get(key string) types.Tool {
	return globalRegistry.Get(key)
}

// Run runs a tool from the global registry.
func Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error) {
	return globalRegistry.Run(ctx, key, data, config)
}
