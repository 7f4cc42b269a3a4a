package integration_testing

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/2beens/gymbros/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort = 9100
	serverHost = "localhost"

	pgUser     = "postgres"
	pgPassword = "postgres"
	pgDBName   = "gymbros"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// Suite holds the docker containers (redis and postgres) shared by the integration tests.
type Suite struct {
	DB           *sql.DB
	dockerPool   *dockertest.Pool
	RedisPort    string
	PostgresPort string
	teardown     []func()
}

func newSuite() (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	suite.dockerPool.MaxWait = 2 * time.Minute

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	suite.RedisPort, err = suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	suite.PostgresPort, err = suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *Suite) testConfig(driver string) *config.Config {
	return &config.Config{
		Host:                   serverHost,
		Port:                   serverPort,
		PrometheusMetricsHost:  "localhost",
		PrometheusMetricsPort:  "9112",
		StorageDriver:          driver,
		RedisHost:              "localhost",
		RedisPort:              s.RedisPort,
		RedisKeyPrefix:         "gymbros-it:",
		PostgresHost:           "localhost",
		PostgresPort:           s.PostgresPort,
		PostgresDBName:         pgDBName,
		PostgresUser:           pgUser,
		ProgressionPolicy:      "first",
		RateLimitAllowedPerMin: 3,
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", pgUser, pgPassword, pgPort, pgDBName)

	// postgres needs a moment before it accepts connections
	if err := s.dockerPool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return err
		}
		s.DB = db
		return nil
	}); err != nil {
		return "", fmt.Errorf("wait for postgres: %s", err)
	}

	return pgPort, nil
}
