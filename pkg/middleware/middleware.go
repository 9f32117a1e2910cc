// Package middleware provides HTTP middleware and the stack that composes it.
package middleware

import "net/http"

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Stack composes middleware in registration order: the first added is the
// outermost wrapper.
type Stack struct {
	layers []Middleware
}

// Use appends middleware to the stack.
func (s *Stack) Use(mws ...Middleware) {
	s.layers = append(s.layers, mws...)
}

// Len returns the number of registered middleware.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Apply wraps handler with every middleware in the stack.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		handler = s.layers[i](handler)
	}
	return handler
}
