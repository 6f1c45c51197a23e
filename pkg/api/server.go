// Package api provides the read-only HTTP report surface over pkg/index
// (§3 DATA MODEL, C5 additive scope). It never calls fim.CheckPermission
// or touches the scheduler — it only renders history that pkg/index
// already indexed.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intentguard/core/pkg/index"
	"golang.org/x/sync/singleflight"
)

// Server is the HTTP report API server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	index  *index.Client
	sf     singleflight.Group
}

// NewServer builds a Server bound to idx. ginMode should be "release" in
// production ("debug" is gin's own default).
func NewServer(idx *index.Client, ginMode string) *Server {
	gin.SetMode(ginMode)
	e := gin.New()
	e.Use(gin.Recovery())

	s := &Server{engine: e, index: idx}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.Health)
	s.engine.GET("/runs", s.ListRuns)
	s.engine.GET("/runs/:id", s.GetRun)
	s.engine.GET("/identity/latest", s.LatestIdentity)
	s.engine.GET("/drift-log", s.DriftLog)
}

// Start begins serving on addr. Blocks until the server stops or ctx
// is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
