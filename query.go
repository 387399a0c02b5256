package vestd

import (
	"fmt"
	"strings"

	"github.com/iov-one/vestd/errors"
)

// KeyQueryMod is the only supported query mode: the query data is the exact
// key of the requested record.
const KeyQueryMod = ""

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is a function that adds some handlers
// to this router
type QueryRegister func(QueryRouter)

// QueryRouter allows us to register many query handlers
// to different paths and then direct each query
// to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 4),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path.
// panics if another Handler was already registered
func (r QueryRouter) Register(path string, h QueryHandler) {
	path = normalizeQueryPath(path)
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns a handler that always fails with a not found
// error. Always returns a non-nil Handler
func (r QueryRouter) Handler(path string) QueryHandler {
	if h, ok := r.routes[normalizeQueryPath(path)]; ok {
		return h
	}
	return noSuchPath(path)
}

func normalizeQueryPath(path string) string {
	return "/" + strings.Trim(path, "/")
}

type noSuchPath string

func (path noSuchPath) Query(ReadOnlyKVStore, string, []byte) ([]Model, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for path %q", string(path))
}
