package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/felixgeelhaar/taskboard/adapter/cli"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/spf13/cobra"
)

// Cmd is the events command group.
var Cmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect task events",
}

var patterns []string

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print task events as they are published",
	Long: `Bind a temporary queue to the task event exchange and print every
matching event until interrupted. Requires RABBITMQ_URL.

Examples:
  taskboard events tail
  taskboard events tail --pattern tasks.task.deleted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Config == nil {
			return fmt.Errorf("application not initialized")
		}
		if !app.Config.EventsEnabled() {
			return fmt.Errorf("RABBITMQ_URL is not set")
		}

		log := cli.Logger()
		registry := eventbus.NewConsumerRegistry(log)
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:    app.Config.RabbitMQURL,
			Logger: log,
		}, registry)
		if err != nil {
			return err
		}
		defer consumer.Close()

		consumer.RegisterConsumer(printer(cmd.OutOrStdout(), patterns))

		err = consumer.Start(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// printer writes one line per event.
func printer(out io.Writer, patterns []string) eventbus.EventConsumer {
	var mu sync.Mutex
	return eventbus.ConsumerFunc{
		Patterns: patterns,
		Fn: func(_ context.Context, event *eventbus.Event) error {
			mu.Lock()
			defer mu.Unlock()
			_, err := fmt.Fprintf(out, "%s  %-20s  %s  %s\n",
				event.OccurredAt.UTC().Format("2006-01-02T15:04:05Z"),
				event.RoutingKey,
				event.AggregateID,
				event.Payload,
			)
			return err
		},
	}
}

func init() {
	tailCmd.Flags().StringSliceVar(&patterns, "pattern", []string{"tasks.#"}, "routing key patterns to follow")
	Cmd.AddCommand(tailCmd)
}
