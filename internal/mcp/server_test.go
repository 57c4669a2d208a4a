package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/felixgeelhaar/taskboard/internal/app"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *app.Container {
	t.Helper()
	cfg := &config.Config{
		AppEnv:        "development",
		StorageDriver: "memory",
		MaxPageSize:   100,
	}
	container, err := app.NewContainer(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return container
}

func TestNewServer_RegistersTaskTools(t *testing.T) {
	srv, err := NewServer(newContainer(t))
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, tool := range tools {
		if name, ok := tool["name"].(string); ok {
			found[name] = true
		}
	}
	for _, name := range []string{"task.list", "task.create", "task.update", "task.delete", "health"} {
		assert.True(t, found[name], "%s tool should be registered", name)
	}
}

func TestNewServer_RequiresContainer(t *testing.T) {
	_, err := NewServer(nil)
	assert.EqualError(t, err, "container is required")
}

func TestServe_RequiresConfig(t *testing.T) {
	assert.EqualError(t, Serve(context.Background(), nil, nil, nil), "config is required")
}

func TestMiddlewareStack_AddsAuthWithToken(t *testing.T) {
	logger := mcpLogger{logger: slog.New(slog.DiscardHandler)}

	open := middlewareStack("", logger)
	guarded := middlewareStack("secret", logger)
	assert.Len(t, guarded, len(open)+1)
}

func TestMCPLogger_FlattensFields(t *testing.T) {
	var buf bytes.Buffer
	logger := mcpLogger{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	logger.Info("tool called", middleware.Field{Key: "tool", Value: "task.list"})
	assert.Contains(t, buf.String(), "tool=task.list")
}
