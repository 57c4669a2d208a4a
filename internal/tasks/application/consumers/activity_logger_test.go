package consumers

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	bus := eventbus.NewInProcessEventBus(nil)
	bus.RegisterConsumer(NewActivityLogger(logger))

	ev := task.NewTaskDeleted("0190a")
	require.NoError(t, eventbus.PublishDomainEvent(context.Background(), bus, ev))

	out := buf.String()
	assert.Contains(t, out, "task activity")
	assert.Contains(t, out, "routing_key=tasks.task.deleted")
	assert.Contains(t, out, "task_id=0190a")
	assert.Contains(t, out, "component=activity")
}
