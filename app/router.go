package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/\-]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]vestd.Handler
}

var _ vestd.Registry = (*Router)(nil)
var _ vestd.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]vestd.Handler, 8),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered or the path is not valid.
func (r *Router) Handle(path string, h vestd.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPath Handler. This function always returns a non nil
// value.
func (r *Router) handler(path string) vestd.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx) (*vestd.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "transaction without message")
	}
	return r.handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx) (*vestd.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "transaction without message")
	}
	return r.handler(msg.Path()).Deliver(ctx, store, tx)
}

// noSuchPathHandler is a Handler that always returns ErrNotFound. Use it to
// signal a missing route.
type noSuchPathHandler string

var _ vestd.Handler = noSuchPathHandler("")

func (path noSuchPathHandler) Check(vestd.Context, vestd.KVStore, vestd.Tx) (*vestd.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path noSuchPathHandler) Deliver(vestd.Context, vestd.KVStore, vestd.Tx) (*vestd.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
