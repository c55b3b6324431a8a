package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type Server struct {
	name   string
	port   int
	debug  bool
	block  chan struct{}
	routes []Route
	raw    map[string]http.Handler
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:   name,
		port:   port,
		block:  make(chan struct{}, 1),
		routes: make([]Route, 0),
		raw:    make(map[string]http.Handler),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// AddRoute adds a route with the given method, path and handler
func (s *Server) AddRoute(method Method, path string, exec Handler) *Server {
	return s.Add(NewRoute(method, path).Handler(exec).Create())
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Handle mounts a plain http handler, outside of the request block.
func (s *Server) Handle(path string, h http.Handler) *Server {
	s.raw[path] = h
	return s
}

// Handler returns the multiplexer serving all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		mux.HandleFunc(route.Path, s.handle(route))
	}
	for path, h := range s.raw {
		mux.Handle(path, h)
	}
	return mux
}

func (s *Server) handle(route Route) http.HandlerFunc {
	name := fmt.Sprintf("%s %s", route.Method, route.Path)
	return func(w http.ResponseWriter, r *http.Request) {
		// the root pattern matches every path
		if route.Path == "/" && r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if Method(r.Method) != route.Method {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		// we only handle one request at a time
		select {
		case s.block <- struct{}{}:
		case <-r.Context().Done():
			log.Debug().
				Err(r.Context().Err()).
				Str("action", name).
				Msg("request cancelled while waiting")
			return
		}
		start := time.Now()
		log.Debug().
			Time("time", start).
			Str("action", name).
			Msg("started execution")
		defer func() {
			<-s.block
			log.Debug().
				Float64("duration", time.Since(start).Seconds()).
				Str("action", name).
				Msg("completed execution")
		}()

		if s.debug {
			log.Info().
				Str("url", fmt.Sprintf("%+v", r.URL)).
				Str("header", fmt.Sprintf("%+v", r.Header)).
				Str("remote-address", r.RemoteAddr).
				Str("method", r.Method).
				Int64("content-length", r.ContentLength).
				Msg("received request")
		}

		b, code, err := route.Exec(r.Context(), r)
		if err != nil {
			s.error(w, code, err)
			return
		}
		for k, vv := range route.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		if code == 0 {
			code = http.StatusOK
		}
		s.code(w, b, code)
	}
}

// Run starts the server and blocks until the context is cancelled or the server fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Str("server", s.name).Msg("stopping server")
		if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not stop server: %w", err)
		}
		return nil
	}
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, code int, err error) {
	if code == 0 || code == http.StatusOK {
		code = http.StatusInternalServerError
	}
	log.Error().Err(err).Int("code", code).Msg("error for http request")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.code(w, []byte(err.Error()), code)
}

func Live() Route {
	return NewRoute(GET, "/live").
		Handler(func(_ context.Context, _ *http.Request) ([]byte, int, error) {
			return []byte{}, http.StatusOK, nil
		}).
		Create()
}
