package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymbros/internal"
	"github.com/2beens/gymbros/internal/config"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	serverPort = 9200
	serverHost = "127.0.0.1"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// EndToEndTestSuite runs the whole service on the disk storage driver, in a temp dir.
type EndToEndTestSuite struct {
	suite.Suite

	dataDir    string
	server     *internal.Server
	httpClient *http.Client
}

func TestEndToEndTestSuite(t *testing.T) {
	suite.Run(t, new(EndToEndTestSuite))
}

func (s *EndToEndTestSuite) SetupSuite() {
	fmt.Println("setting up test suite...")

	dataDir, err := os.MkdirTemp("", "gymbros-e2e")
	s.Require().NoError(err)
	s.dataDir = dataDir
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	s.startServer()
	fmt.Println("server started")
}

func (s *EndToEndTestSuite) TearDownSuite() {
	fmt.Println(" --> cleaning up test suite...")
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if err := os.RemoveAll(s.dataDir); err != nil {
		fmt.Printf(" --> remove data dir: %s\n", err)
	}
	fmt.Println(" --> test suite cleanup done")
}

// SetupTest gives every test an empty store and no running session.
func (s *EndToEndTestSuite) SetupTest() {
	ctx := context.Background()

	// 409 when there is no session, which is fine
	resp := s.do(ctx, http.MethodPost, "/session/cancel", nil)
	resp.Body.Close()

	resp = s.do(ctx, http.MethodDelete, "/data", nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *EndToEndTestSuite) testConfig() *config.Config {
	return &config.Config{
		Host:                   serverHost,
		Port:                   serverPort,
		PrometheusMetricsHost:  serverHost,
		PrometheusMetricsPort:  "9212",
		CorsAllowedOrigins:     []string{"http://localhost:5173"},
		StorageDriver:          config.StorageDriverDisk,
		DataDir:                s.dataDir,
		CacheSizeMB:            1,
		ProgressionPolicy:      "first",
		RateLimitAllowedPerMin: 10,
	}
}

func (s *EndToEndTestSuite) startServer() {
	var err error
	s.server, err = internal.NewServer(
		context.Background(),
		internal.NewServerParams{
			Config:      s.testConfig(),
			VersionInfo: "test-version-info",
		},
	)
	s.Require().NoError(err)

	s.server.Serve(serverHost, serverPort)

	s.Require().Eventually(func() bool {
		resp, err := s.httpClient.Get(serverEndpoint + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond)
}

func (s *EndToEndTestSuite) restartServer() {
	s.server.GracefulShutdown()
	s.startServer()
}

func (s *EndToEndTestSuite) do(ctx context.Context, method, path string, body any) *http.Response {
	t := s.T()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
