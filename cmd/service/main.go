package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/gymbros/internal"
	"github.com/2beens/gymbros/internal/config"
	"github.com/2beens/gymbros/internal/logging"
	"github.com/2beens/gymbros/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "gymbros-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using storage driver: [%s]", cfg.StorageDriver)

	if cfg.StorageDriver == config.StorageDriverDisk {
		if err := pkg.EnsureDir(cfg.DataDir); err != nil {
			log.Fatalf("data dir [%s]: %s", cfg.DataDir, err)
		}
		log.Printf("data dir: %s", cfg.DataDir)
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	secrets := readEnvSecrets(cfg)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server, err := internal.NewServer(
		context.Background(),
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			RedisPassword:           secrets.redisPassword,
			PostgresPassword:        secrets.postgresPassword,
			HoneycombTracingEnabled: secrets.honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)

	server.GracefulShutdown()
}

type envSecrets struct {
	redisPassword    string
	postgresPassword string
	honeycombEnabled bool
}

// readEnvSecrets reads the secrets the configured drivers need, complaining
// only about the ones that will actually be used.
func readEnvSecrets(cfg *config.Config) envSecrets {
	secrets := envSecrets{
		redisPassword:    os.Getenv("GYMBROS_REDIS_PASS"),
		postgresPassword: os.Getenv("GYMBROS_POSTGRES_PASS"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	usesRedis := cfg.StorageDriver == config.StorageDriverRedis || cfg.RedisHost != ""
	if usesRedis && secrets.redisPassword == "" {
		log.Errorf("redis password not set. use GYMBROS_REDIS_PASS")
	}
	if cfg.StorageDriver == config.StorageDriverPostgres && secrets.postgresPassword == "" {
		log.Errorf("postgres password not set. use GYMBROS_POSTGRES_PASS")
	}

	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
	if !secrets.honeycombEnabled {
		log.Debugln("honeycomb tracing disabled")
	} else if os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}

	return secrets
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pkg.BytesToString(stdout)), nil
}
