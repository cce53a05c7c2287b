package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"codeberg.org/snonux/linguasphere/internal"
	"codeberg.org/snonux/linguasphere/internal/session"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

// Server serves one Session. The session is single-user, so every handler
// holds mu while it touches it.
type Server struct {
	mu             sync.Mutex
	session        *session.Session
	defaultBackend translation.Backend
	logger         *zap.Logger
	echo           *echo.Echo
}

// New creates the server and registers all routes
func New(sess *session.Session, defaultBackend translation.Backend, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		session:        sess,
		defaultBackend: defaultBackend,
		logger:         logger,
	}
	s.echo = s.newRouter()
	return s
}

func (s *Server) newRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(requestLogger(s.logger))

	e.GET("/healthz", s.health)

	api := e.Group("/api")
	api.GET("/languages", s.listLanguages)
	api.POST("/translate", s.translate)
	api.GET("/flashcards", s.listFlashcards)
	api.POST("/flashcards", s.saveFlashcards)
	api.DELETE("/flashcards/:index", s.deleteFlashcard)
	api.GET("/audio", s.audio)

	return e
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": internal.Version,
	})
}
