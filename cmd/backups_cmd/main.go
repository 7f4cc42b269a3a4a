package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/gymbros/internal/bundle"
	"github.com/2beens/gymbros/internal/config"
	"github.com/2beens/gymbros/internal/logging"
	"github.com/2beens/gymbros/internal/storage"
	"github.com/2beens/gymbros/internal/store"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	exportPath := flag.String("export", "", "write a backup bundle to this file, or into this directory")
	importFile := flag.String("import", "", "import the given backup bundle file (replaces the stored data)")
	logsPath := flag.String("logs-path", "", "logs file path (empty for stdout)")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: *logsPath,
		LogToStdout: *logsPath == "",
		LogLevel:    "info",
	})

	if (*exportPath == "") == (*importFile == "") {
		log.Fatalln("exactly one of -export or -import must be set")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backend, err := storage.Open(ctx, storage.OpenParams{
		Config:           cfg,
		RedisPassword:    os.Getenv("GYMBROS_REDIS_PASS"),
		PostgresPassword: os.Getenv("GYMBROS_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("open storage: %s", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Errorf("close storage: %s", err)
		}
	}()

	dataStore := store.New(ctx, backend, nil)

	if *exportPath != "" {
		path, err := doExport(ctx, dataStore, *exportPath, time.Now())
		if err != nil {
			log.Fatalf("export: %s", err)
		}
		log.Printf("backup written: %s", path)
		return
	}

	result, err := doImport(ctx, dataStore, *importFile)
	if err != nil {
		var validationErr *bundle.ImportValidationError
		if errors.As(err, &validationErr) {
			log.Fatalf("backup rejected, nothing imported: %s", validationErr)
		}
		log.Fatalf("import: %s", err)
	}
	if err := dataStore.LastWriteError(); err != nil {
		log.Fatalf("import applied but not persisted: %s", err)
	}
	log.Printf(
		"backup imported: %d routines, %d workouts, settings: %t",
		result.RoutinesImported, result.WorkoutsImported, result.SettingsImported,
	)
}

func doExport(ctx context.Context, dataStore *store.Store, path string, now time.Time) (string, error) {
	data, err := bundle.Encode(bundle.Export(ctx, dataStore, now))
	if err != nil {
		return "", err
	}

	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		path = filepath.Join(path, bundle.FileName(now))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func doImport(ctx context.Context, dataStore *store.Store, path string) (bundle.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bundle.ImportResult{}, err
	}
	return bundle.Import(ctx, dataStore, data)
}
