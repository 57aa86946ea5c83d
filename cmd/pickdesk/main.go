// Pickdesk is the warehouse order-picking client. It shows the open
// orders as a kanban board, lets the operator record collected
// quantities line by line, and keeps the view fresh by polling the
// picking server.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/ohalin/pickdesk/internal/backend"
	"github.com/ohalin/pickdesk/internal/config"
	"github.com/ohalin/pickdesk/internal/controller"
	"github.com/ohalin/pickdesk/internal/gui"
	"github.com/ohalin/pickdesk/internal/session"
)

var (
	serverURL = flag.String("server", "", "Picking server URL (overrides the config file)")
	debugMode = flag.Bool("debug", false, "Enable verbose debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Failed to load config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *debugMode {
		cfg.App.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Main] Invalid config: %v", err)
	}
	if cfg.App.DebugMode {
		log.Printf("[Main] Debug mode enabled, server %s", cfg.Server.URL)
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		log.Fatalf("[Main] Invalid request timeout: %v", err)
	}
	pollInterval, err := cfg.PollInterval()
	if err != nil {
		log.Fatalf("[Main] Invalid poll interval: %v", err)
	}
	completionDelay, err := cfg.CompletionDelay()
	if err != nil {
		log.Fatalf("[Main] Invalid completion delay: %v", err)
	}

	client := backend.NewClient(&backend.ClientConfig{
		BaseURL:           cfg.Server.URL,
		Timeout:           timeout,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
	})

	sess := session.New()

	configDir, err := config.Dir()
	if err != nil {
		log.Fatalf("[Main] Failed to resolve config dir: %v", err)
	}
	keychain, err := session.NewKeychain(configDir)
	if err != nil {
		// Without a token cache the operator just logs in every start.
		log.Printf("[Main] Token cache unavailable: %v", err)
		keychain = nil
	}

	ui := gui.New(cfg.App.PreviewLines)
	ctrl := controller.New(client, sess, ui, keychain, controller.Config{
		PollInterval:    pollInterval,
		CompletionDelay: completionDelay,
	})
	ui.SetController(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchConfig(ctx, client)

	// Try the cached token first; fall back to the login screen.
	go func() {
		ok, err := ctrl.Resume()
		if err != nil {
			log.Printf("[Main] Resume failed: %v", err)
		}
		if !ok {
			ui.ShowLogin("")
		}
	}()

	ui.Run()
	ctrl.Stop()
}

// watchConfig repoints the HTTP client when the config file's server URL
// changes. Cadence changes still need a restart.
func watchConfig(ctx context.Context, client *backend.Client) {
	path, err := config.Path()
	if err != nil {
		return
	}
	err = config.Watch(ctx, path, func(c *config.Config) {
		if c.Server.URL != client.BaseURL() {
			log.Printf("[Main] Server URL changed to %s", c.Server.URL)
			client.SetBaseURL(c.Server.URL)
		}
	})
	if err != nil {
		log.Printf("[Main] Config watcher stopped: %v", err)
	}
}
