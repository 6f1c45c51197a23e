package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Health reports liveness only — readiness (can we reach Postgres) is a
// separate concern the deployment's own probe config decides on.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRuns returns recent pipeline runs, newest first. Accepts an
// optional ?limit= query parameter.
func (s *Server) ListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	runs, err := s.index.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns one run's detail, including its per-step results.
func (s *Server) GetRun(c *gin.Context) {
	run, err := s.index.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// LatestIdentity returns the most recently computed identity vector
// across all runs. Concurrent requests that land inside the same
// instant are collapsed onto a single Postgres query via singleflight —
// a cache-stampede guard, not a correctness requirement.
func (s *Server) LatestIdentity(c *gin.Context) {
	v, err, _ := s.sf.Do("latest-identity", func() (interface{}, error) {
		return s.index.LatestIdentity(c.Request.Context())
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no identity snapshot recorded yet"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// DriftLog returns recorded permission denials, optionally filtered by
// ?tool= and capped by ?limit=.
func (s *Server) DriftLog(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	events, err := s.index.DriftLog(c.Request.Context(), c.Query("tool"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
