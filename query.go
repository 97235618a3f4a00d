package weave

import (
	"fmt"
	"sort"
)

// Query modifiers appended to a path after "?". An empty modifier looks up
// a single key.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// IsQueryMod reports whether mod is a modifier every query handler accepts.
func IsQueryMod(mod string) bool {
	return mod == KeyQueryMod || mod == PrefixQueryMod
}

// Model is a single key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns the model for key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler reads models from the committed state. A key lookup that
// finds nothing returns an empty result, not an error.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query paths of one module.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths, such as "/ballots", to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register with this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register panics if path already has a handler. Two modules exposing the
// same path is a wiring mistake.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths returns the registered paths in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
