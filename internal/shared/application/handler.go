// Package application holds the request types shared by every use case:
// commands change state, queries read it, and both are handled with a context.
package application

import "context"

// Command is a state-changing request. CommandName labels logs and metrics.
type Command interface {
	CommandName() string
}

// Query is a read-only request. QueryName labels logs and metrics.
type Query interface {
	QueryName() string
}

// CommandHandler executes one command type.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// QueryHandler answers one query type.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
