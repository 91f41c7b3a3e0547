package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fastygo/deadliner/domain"
)

// Request is one named operation invoked on behalf of a user.
type Request struct {
	UserID string
	Args   map[string]any
}

// Handler runs a registered operation.
type Handler func(ctx context.Context, req Request) (any, error)

// Dispatcher routes named commands and queries to handlers. Commands change state, queries
// only read it.
type Dispatcher struct {
	commands map[string]Handler
	queries  map[string]Handler
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]Handler),
		queries:  make(map[string]Handler),
	}
}

func (d *Dispatcher) RegisterCommand(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands[name] = handler
}

func (d *Dispatcher) RegisterQuery(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries[name] = handler
}

func (d *Dispatcher) ExecuteCommand(ctx context.Context, name string, req Request) (any, error) {
	return d.execute(ctx, d.commands, "command", name, req)
}

func (d *Dispatcher) ExecuteQuery(ctx context.Context, name string, req Request) (any, error) {
	return d.execute(ctx, d.queries, "query", name, req)
}

// Names lists every registered operation, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.commands)+len(d.queries))
	for name := range d.commands {
		names = append(names, name)
	}
	for name := range d.queries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (d *Dispatcher) execute(ctx context.Context, handlers map[string]Handler, kind, name string, req Request) (any, error) {
	d.mu.RLock()
	handler, ok := handlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.NewError(domain.ErrCodeNotFound, fmt.Sprintf("%s %s not registered", kind, name))
	}
	if req.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return handler(ctx, req)
}

// StringArg returns the string argument key, or fallback when absent or not a string.
func (r Request) StringArg(key, fallback string) string {
	if v, ok := r.Args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// IntArg accepts JSON numbers, which decode as float64.
func (r Request) IntArg(key string, fallback int) int {
	switch v := r.Args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
