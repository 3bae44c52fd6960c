package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/planbridge/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
		logger:          slog.New(slog.DiscardHandler),
	}
}

// Server wraps http.Server with graceful shutdown and logging.
type Server struct {
	cfg    *config
	srv    *http.Server
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Server{cfg: cfg}
}

// Run starts the HTTP server and blocks until shutdown.
// It returns ErrStart wrapped with the underlying error if the server fails to start.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}

	cfg := s.cfg
	srv := &http.Server{
		Addr:         cfg.addr,
		Handler:      handler,
		ReadTimeout:  cfg.readTimeout,
		WriteTimeout: cfg.writeTimeout,
		IdleTimeout:  cfg.idleTimeout,
		ErrorLog:     slog.NewLogLogger(cfg.logger.Handler(), slog.LevelError),
	}
	s.srv = srv
	s.mu.Unlock()

	cfg.logger.InfoContext(ctx, "http server starting", slog.String("addr", cfg.addr), logger.Component("httpserver"))

	for _, h := range cfg.startHooks {
		h(cfg.logger)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case <-stop:
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}
	signal.Stop(stop)

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		cfg.logger.ErrorContext(ctx, "http server failed", logger.Error(runErr), logger.Component("httpserver"))
		return errors.Join(ErrStart, runErr)
	}
	cfg.logger.InfoContext(ctx, "http server stopped", logger.Component("httpserver"))
	return nil
}

// Shutdown stops the server gracefully before Run returns.
// It is safe for repeated calls.
// Any error from http.Server.Shutdown is wrapped with ErrShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		if s.srv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = s.srv.Shutdown(ctx)
		for _, h := range s.cfg.stopHooks {
			h(s.cfg.logger)
		}
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
