// Package main runs the gymbros MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the main service at /mcp over HTTP,
// so you can use either: stdio (this cmd) or the service URL (no extra deploy).
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/gymbros/internal/catalog"
	"github.com/2beens/gymbros/internal/config"
	"github.com/2beens/gymbros/internal/logging"
	gymbrosmcp "github.com/2beens/gymbros/internal/mcp"
	"github.com/2beens/gymbros/internal/session"
	"github.com/2beens/gymbros/internal/stats"
	"github.com/2beens/gymbros/internal/storage"
	"github.com/2beens/gymbros/internal/store"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	logsPath := flag.String("logs-path", "", "logs file path (empty for stderr)")
	flag.Parse()

	// stdout carries the MCP messages, never log there
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   *logsPath,
		LogLevel:      "info",
		ConsoleStderr: true,
	})

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, storage.OpenParams{
		Config:           cfg,
		RedisPassword:    os.Getenv("GYMBROS_REDIS_PASS"),
		PostgresPassword: os.Getenv("GYMBROS_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Errorf("close storage: %s", err)
		}
	}()

	policy, err := session.PolicyByName(cfg.ProgressionPolicy)
	if err != nil {
		log.Fatalf("progression policy: %v", err)
	}

	dataStore := store.New(ctx, backend, nil)
	server := gymbrosmcp.NewServer(gymbrosmcp.NewContextService(gymbrosmcp.NewContextServiceParams{
		Store:        dataStore,
		Progression:  session.NewManager(session.NewManagerParams{Store: dataStore, Policy: policy}),
		Analyzer:     stats.NewAnalyzer(dataStore, nil),
		Catalog:      catalog.Default(),
		ReloadOnRead: true,
	}))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
