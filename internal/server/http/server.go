// Package http exposes the jobscreen API over HTTP using gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
	"github.com/dmitrijs2005/jobscreen/internal/server/auth"
	"github.com/dmitrijs2005/jobscreen/internal/server/classifier"
	"github.com/dmitrijs2005/jobscreen/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Services bundles what the handlers call into.
type Services struct {
	Users       *services.UserService
	Predictions *services.PredictionService
	Flags       *services.FlagService
	Analytics   *services.AnalyticsService
	Archive     *services.ArchiveService
	Tokens      *auth.TokenService
	ModelInfo   func() classifier.Info
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	router  *gin.Engine

	users       *services.UserService
	predictions *services.PredictionService
	flags       *services.FlagService
	analytics   *services.AnalyticsService
	archive     *services.ArchiveService
	tokens      *auth.TokenService
	modelInfo   func() classifier.Info
}

func NewHTTPServer(address string, l logging.Logger, svc Services) *HTTPServer {
	s := &HTTPServer{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       svc.Users,
		predictions: svc.Predictions,
		flags:       svc.Flags,
		analytics:   svc.Analytics,
		archive:     svc.Archive,
		tokens:      svc.Tokens,
		modelInfo:   svc.ModelInfo,
	}
	s.router = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.GET("/model-info", s.getModelInfo)

	r.POST("/signup", s.signup)
	r.POST("/login", s.login)
	r.POST("/flag", s.submitFlag)

	authed := r.Group("/", s.authenticate())
	authed.POST("/predict", s.predict)

	admin := r.Group("/admin", s.authenticate(), s.requireRole(common.RoleAdmin))
	{
		admin.GET("/predictions/history", s.history)
		admin.GET("/predictions/stats", s.stats)
		admin.GET("/predictions/daily", s.daily)
		admin.GET("/predictions/confidence", s.confidence)
		admin.GET("/predictions/export", s.export)
		admin.POST("/predictions/archive", s.archiveExport)
		admin.GET("/flags", s.listFlags)
	}

	return r
}

// Handler returns the router, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
