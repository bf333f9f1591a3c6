package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/config"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// ReadyFunc is called once the listener is bound, before requests are served.
// An error aborts startup.
type ReadyFunc func(ctx context.Context) error

const shutdownTimeout = 10 * time.Second

type Server struct {
	Router  *mux.Router
	DB      *gorm.DB
	Config  *config.Config
	Metrics *metrics.Metrics

	Store       store.Store
	HealthStore store.HealthStore

	// AccessLog receives one Apache combined log line per request
	AccessLog io.Writer

	srv *http.Server

	mu       sync.Mutex
	hooks    []ReadyFunc
	fired    bool
	listener net.Listener
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	m *metrics.Metrics,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	router.Use(m.Middleware)

	s := &Server{
		Router:      router,
		DB:          db,
		Config:      cfg,
		Metrics:     m,
		Store:       gormstore.NewStore(db),
		HealthStore: gormstore.NewHealthStore(db),
		AccessLog:   os.Stdout,
	}
	s.srv = &http.Server{
		Addr:              net.JoinHostPort(host, port),
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// OnReady registers a hook fired once the listener is bound
func (s *Server) OnReady(fn ReadyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Handler returns the router wrapped with recovery and access logging
func (s *Server) Handler() http.Handler {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router)
	return handlers.LoggingHandler(s.AccessLog, recovered)
}

// Addr returns the bound listener address, or the configured one before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.srv.Addr
}

// Start binds the configured address and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve fires the ready hooks and then serves ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	if err := s.fireReady(ctx); err != nil {
		_ = ln.Close()
		return err
	}

	s.srv.Handler = s.Handler()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) fireReady(ctx context.Context) error {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return nil
	}
	s.fired = true
	hooks := append([]ReadyFunc(nil), s.hooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("ready hook: %w", err)
		}
	}
	log.Printf("Server ready on %s", s.Addr())
	return nil
}
