package server

import (
	"context"
	"net/http"
)

type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

// Handler produces the payload and status code for a request.
// A zero code is treated as http.StatusOK, or http.StatusInternalServerError when err is set.
type Handler func(ctx context.Context, r *http.Request) (payload []byte, code int, err error)

type Route struct {
	Path   string
	Method Method
	Header http.Header
	Exec   Handler
}

// RouteBuilder assembles a Route.
type RouteBuilder struct {
	route Route
}

// NewRoute starts a route for the given method and path.
func NewRoute(method Method, path string) *RouteBuilder {
	return &RouteBuilder{
		route: Route{
			Path:   path,
			Method: method,
			Header: make(http.Header),
		},
	}
}

// WithHeader adds a header to every response of the route.
func (b *RouteBuilder) WithHeader(key, value string) *RouteBuilder {
	b.route.Header.Add(key, value)
	return b
}

// Handler assigns the handler of the route.
func (b *RouteBuilder) Handler(exec Handler) *RouteBuilder {
	b.route.Exec = exec
	return b
}

// Create returns the route.
func (b *RouteBuilder) Create() Route {
	return b.route
}
