package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/logging"
	"github.com/dmitrijs2005/jobscreen/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "data", "jobs.db")
	c.EndpointAddrHTTP = freeAddr(t)
	c.EndpointAddrGRPC = ""
	c.PasswordHashCost = 4
	return c
}

func TestNewApp_RunAndStop(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddrGRPC = freeAddr(t)

	app, err := NewApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	require.NotNil(t, app.grpcServer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", c.EndpointAddrHTTP))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	assert.Error(t, app.db.Ping(), "store closed on exit")
	_, err = os.Stat(c.DatabasePath)
	assert.NoError(t, err)
}

func TestNewApp_GRPCDisabled(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), logging.Nop())
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.grpcServer)
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig(t)
	c.SigningAlgorithm = "RS256"
	_, err := NewApp(context.Background(), c, logging.Nop())
	assert.Error(t, err)

	c = testConfig(t)
	c.KeywordsFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = NewApp(context.Background(), c, logging.Nop())
	assert.Error(t, err)

	c = testConfig(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	c.DatabasePath = filepath.Join(blocker, "jobs.db")
	_, err = NewApp(context.Background(), c, logging.Nop())
	assert.Error(t, err)
}

func TestRun_StopsWhenServerFails(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddrHTTP = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
}
