// Package httpapi exposes the account operations over an HTTP JSON API.
// Handlers decode typed requests, call into users.Service, and map its
// sentinel errors onto status codes; no business rule lives here.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/saedev/sae-auth/internal/logging"
	"github.com/saedev/sae-auth/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr        string
	logger      logging.Logger
	userService *users.Service
	corsOrigins []string
	httpServer  *http.Server
}

func NewServer(addr string, logger logging.Logger, userService *users.Service, corsOrigins []string) (*Server, error) {
	return &Server{
		addr:        addr,
		logger:      logger,
		userService: userService,
		corsOrigins: corsOrigins,
	}, nil
}

// routes builds the router. Register and login stay open; everything else
// under /api/auth goes through the bearer-token middleware.
func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/", s.handleRoot).Methods(http.MethodGet)

	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	protected := router.PathPrefix("/api/auth").Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/verify", s.handleVerify).Methods(http.MethodGet)
	protected.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/password", s.handleUpdatePassword).Methods(http.MethodPut)
	protected.HandleFunc("/avatar", s.handleUpdateAvatar).Methods(http.MethodPut)

	return router
}

// Handler returns the complete handler chain, CORS included. Exposed for
// tests driving the API through httptest.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.corsOrigins)(s.routes())
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation the server drains in-flight requests
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
