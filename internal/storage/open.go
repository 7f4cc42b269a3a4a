package storage

import (
	"context"
	"fmt"
	"net"

	"github.com/2beens/gymbros/internal/config"
	"github.com/2beens/gymbros/internal/db"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type OpenParams struct {
	Config           *config.Config
	RedisPassword    string
	PostgresPassword string
	TracingEnabled   bool
	// PromRegisterer gets the pgx pool collector when the postgres driver is used
	PromRegisterer prometheus.Registerer
}

// Open creates the backend selected by the config storage_driver.
func Open(ctx context.Context, params OpenParams) (Backend, error) {
	cfg := params.Config

	var (
		backend Backend
		err     error
	)
	switch Driver(cfg.StorageDriver) {
	case DriverMemory:
		backend = NewMemoryBackend()
	case DriverDisk:
		backend, err = NewDiskBackend(cfg.DataDir)
	case DriverSQLite:
		backend, err = NewSQLiteBackend(ctx, cfg.SQLitePath)
	case DriverRedis:
		backend, err = openRedis(ctx, params)
	case DriverPostgres:
		backend, err = openPostgres(ctx, params)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}

	log.Debugf("storage driver: %s", backend.Driver())

	return backend, nil
}

func openRedis(ctx context.Context, params OpenParams) (*RedisBackend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.TracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Debugf("redis ping: %s", rdbStatus.Val())

	return NewRedisBackend(rdb, params.Config.RedisKeyPrefix), nil
}

func openPostgres(ctx context.Context, params OpenParams) (*PostgresBackend, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if params.PromRegisterer != nil {
		collector := pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": params.Config.PostgresDBName},
		)
		if err := params.PromRegisterer.Register(collector); err != nil {
			log.Warnf("register pgx pool collector: %s", err)
		}
	}

	backend, err := NewPostgresBackend(ctx, dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	return backend, nil
}

// RedisClient returns the client of a redis backend.
func RedisClient(b Backend) (*redis.Client, bool) {
	redisBackend, ok := b.(*RedisBackend)
	if !ok {
		return nil, false
	}
	return redisBackend.Client(), true
}
