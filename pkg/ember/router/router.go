// Package router maps exact (method, path) pairs to handlers.
//
// Routes are collected on a Builder during startup and frozen into a Table
// before serving. A Table is never mutated, so concurrent lookups need no lock.
package router

import (
	"sort"

	"github.com/yourusername/ember/pkg/ember/http11"
)

// Route is one registered (method, path) pair.
type Route struct {
	Method string
	Path   string
}

// Builder collects routes. It is not safe for concurrent use.
type Builder struct {
	routes map[string]map[string]http11.Handler // method -> path -> handler
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{routes: make(map[string]map[string]http11.Handler)}
}

// AddHandler registers h for an exact method and path. Registering the same
// pair again replaces the earlier handler.
//
// Methods and paths are compared byte for byte: "get" and "GET" are different
// routes, as are "/a" and "/a/".
func (b *Builder) AddHandler(method, path string, h http11.Handler) {
	if h == nil {
		panic("router: nil handler for " + method + " " + path)
	}
	paths, ok := b.routes[method]
	if !ok {
		paths = make(map[string]http11.Handler)
		b.routes[method] = paths
	}
	paths[path] = h
}

// Build returns an immutable snapshot of the routes added so far. The Builder
// stays usable; later additions do not affect tables already built.
func (b *Builder) Build() *Table {
	t := &Table{routes: make(map[string]map[string]http11.Handler, len(b.routes))}
	for method, paths := range b.routes {
		cp := make(map[string]http11.Handler, len(paths))
		for path, h := range paths {
			cp[path] = h
			t.size++
		}
		t.routes[method] = cp
	}
	return t
}

// Table is a frozen route table. It implements http11.Resolver.
//
// Performance:
//   - Lookup: two map reads
//   - Zero allocations on lookup
type Table struct {
	routes map[string]map[string]http11.Handler
	size   int
}

// Lookup returns the handler registered for exactly method and path.
// A nil Table has no routes.
func (t *Table) Lookup(method, path string) (http11.Handler, bool) {
	if t == nil {
		return nil, false
	}
	h, ok := t.routes[method][path]
	return h, ok
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Routes lists every route sorted by path, then method.
func (t *Table) Routes() []Route {
	if t == nil {
		return nil
	}
	out := make([]Route, 0, t.size)
	for method, paths := range t.routes {
		for path := range paths {
			out = append(out, Route{Method: method, Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

var _ http11.Resolver = (*Table)(nil)
