package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health with a database check",
		Tags:        []string{tagHealth},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	db := s.checkDatabase(ctx)
	if db.Status != "healthy" {
		return nil, huma.Error503ServiceUnavailable("database unavailable")
	}

	return &HealthOutput{
		CacheControl: CacheNoStore,
		Body: HealthResponse{
			Status:     "healthy",
			Components: map[string]ComponentHealth{"database": db},
		},
	}, nil
}

// checkDatabase pings the store with a short deadline.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check: database ping failed", "error", err)
		return ComponentHealth{Status: "unhealthy", Message: "database ping failed"}
	}
	return ComponentHealth{Status: "healthy", Latency: time.Since(start).String()}
}
