// README: HTTP server; gin engine with the plan form, JSON API and health check.
package http

import (
	"context"
	"net/http"

	"daytrip/internal/service"
)

type planner interface {
	Propose(ctx context.Context, req service.PlanRequest) service.Outcome
}

type ServerDeps struct {
	Planner planner
}

type Server struct {
	planner planner
}

func NewServer(deps ServerDeps) *Server {
	return &Server{planner: deps.Planner}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.planner)
}
