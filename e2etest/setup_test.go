package e2etest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/core"
)

// TestEnv is a fully wired dashboard talking to a mock CoinGecko
type TestEnv struct {
	App           *core.App
	Config        *config.Config
	MockServer    *MockServer
	Context       context.Context
	CancelFunc    context.CancelFunc
	ConfigPath    string
	ServerBaseURL string
}

// freePort asks the kernel for an unused port
func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

// SetupTest starts the dashboard and registers its teardown
func SetupTest(t *testing.T) *TestEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	mockServer := NewMockServer()
	port := freePort(t)

	cfg, configPath, err := loadTestConfig(mockServer.GetURL(), port)
	if err != nil {
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to load test config: %v", err)
	}

	env := &TestEnv{
		Config:        cfg,
		MockServer:    mockServer,
		Context:       ctx,
		CancelFunc:    cancel,
		ConfigPath:    configPath,
		ServerBaseURL: fmt.Sprintf("http://localhost:%s", port),
	}
	t.Cleanup(env.TearDown)

	app, err := core.Setup(ctx, cfg)
	require.NoError(t, err, "Failed to setup services")
	env.App = app

	require.NoError(t, app.StartAll(ctx), "Failed to start services")

	require.Eventually(t, func() bool {
		resp, err := http.Get(env.ServerBaseURL + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "Server not responding")

	return env
}

// TearDown releases test environment resources
func (env *TestEnv) TearDown() {
	if env.App != nil {
		env.App.StopAll()
		env.App = nil
	}
	if env.MockServer != nil {
		env.MockServer.Close()
		env.MockServer = nil
	}
	if env.CancelFunc != nil {
		env.CancelFunc()
	}
	if env.ConfigPath != "" {
		cleanupTestConfig(env.ConfigPath)
		env.ConfigPath = ""
	}
}
