// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

// Package httpapi exposes the signup command over HTTP. It is a thin
// adapter: all policy lives in the identity package, and this layer only
// decodes requests and maps typed failures onto status codes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/credentry/credentry/internal/identity"
	"github.com/credentry/credentry/internal/observability"
)

// Server serves the public signup API.
type Server struct {
	addr       string
	signup     *identity.SignUpHandler
	metrics    *observability.Metrics
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a new Server. metrics may be nil; a nil logger falls
// back to slog.Default.
func NewServer(addr string, signup *identity.SignUpHandler, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if signup == nil {
		return nil, oops.Errorf("signup handler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		signup:  signup,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Routes returns the API handler. Exposed for tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/signup", s.handleSignUp)
	return mux
}

// Start begins serving. It returns an error channel that receives any error
// from the HTTP server after it starts; the channel is closed on graceful
// stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("API_LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- oops.Code("API_SERVE_FAILED").Wrap(err)
		}
	}()

	s.logger.Info("api server started", "addr", s.Addr())
	return errCh, nil
}

// Addr returns the bound listen address, useful when addr used port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return oops.Code("API_SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

// handleSignUp maps signup outcomes onto the transport contract:
// success 201, validation failure 422, email conflict 409, anything
// else 500 with a generic body.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	err := s.signup.Execute(r.Context(), identity.SignUp{Email: req.Email, Password: req.Password})

	outcome := outcomeFor(err)
	if s.metrics != nil {
		s.metrics.RecordSignup(outcome, time.Since(start))
	}

	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case isValidation(err):
		ve, _ := identity.AsValidation(err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: "validation failed",
			Field: ve.Field,
			Rule:  ve.Rule,
		})
	case errors.Is(err, identity.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	default:
		// Infrastructure detail was already logged by the handler; the
		// response stays opaque.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidation(err error) bool {
	_, ok := identity.AsValidation(err)
	return ok
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, identity.ErrEmailTaken):
		return observability.OutcomeConflict
	}
	if ve, ok := identity.AsValidation(err); ok {
		switch ve.Field {
		case identity.FieldEmail:
			return observability.OutcomeInvalidEmail
		case identity.FieldPassword:
			return observability.OutcomeWeakPassword
		default:
			// Any other validation failure still answers 422, so the
			// outcome label stays in the validation family.
			return observability.OutcomeInvalidRequest
		}
	}
	return observability.OutcomeInfrastructure
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // Best effort
}
