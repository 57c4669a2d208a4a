package application

import (
	"context"

	"github.com/felixgeelhaar/taskboard/internal/shared/domain"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// EventMetadataFromContext copies the request and correlation ids on ctx into
// the metadata attached to outgoing events.
func EventMetadataFromContext(ctx context.Context) domain.EventMetadata {
	return domain.EventMetadata{
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		RequestID:     observability.RequestIDFromContext(ctx),
	}
}
