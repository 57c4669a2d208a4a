package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

type healthInput struct{}

func registerHealthTool(srv *mcp.Server, health *observability.HealthRegistry) {
	srv.Tool("health").
		Description("Report the health of the task storage backend").
		Handler(func(ctx context.Context, _ healthInput) (observability.OverallHealth, error) {
			return health.GetOverallHealth(ctx), nil
		})
}
