package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/scoring"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

//go:embed templates/index.html
var templatesFS embed.FS

// Scorer produces a scoring reply for a job description and a CV.
type Scorer interface {
	Score(ctx context.Context, req scoring.Request) (*scoring.Result, error)
}

type Server struct {
	scorer Scorer
	logger *zap.Logger
	engine *gin.Engine
}

func New(scorer Scorer, logger *zap.Logger) (*Server, error) {
	if scorer == nil {
		return nil, errors.New("web: scorer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		scorer: scorer,
		logger: logger,
		engine: engine,
	}

	engine.Use(requestID(), s.accessLog(), gin.Recovery())

	engine.GET("/", s.index)
	engine.POST("/", s.submitForm)

	api := engine.Group("/api/v1")
	{
		api.GET("/health", health)
		api.POST("/score", s.scoreJSON)
	}

	return s, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
