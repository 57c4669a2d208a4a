package cli

import (
	"github.com/felixgeelhaar/taskboard/internal/client"
	"github.com/felixgeelhaar/taskboard/pkg/config"
)

// App is what the commands share: the loaded config and an API client.
type App struct {
	Config *config.Config
	Client *client.Client
}

// NewApp points the client at cfg.APIURL.
func NewApp(cfg *config.Config) *App {
	return &App{Config: cfg, Client: client.New(cfg.APIURL)}
}

var app *App

func SetApp(a *App) { app = a }

// GetApp returns the App set by main, or nil in tests that never set one.
func GetApp() *App { return app }
