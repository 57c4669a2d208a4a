package task

import (
	"fmt"

	"github.com/felixgeelhaar/taskboard/adapter/cli"
	"github.com/felixgeelhaar/taskboard/internal/client"
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `List, create, update and delete tasks through the task API.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
}

func apiClient() (*client.Client, error) {
	app := cli.GetApp()
	if app == nil || app.Client == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app.Client, nil
}
