// Package test 提供端到端测试：临时 PostgreSQL + 完整 HTTP 栈，验证 /hello 的持久化语义。
package test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-greeting/internal/controllers"
	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-greeting/internal/repositories"
	"github.com/bionicotaku/lingo-services-greeting/internal/server"
	"github.com/bionicotaku/lingo-services-greeting/internal/services"
	"github.com/bionicotaku/lingo-services-greeting/internal/testenv"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const e2eConfig = `
server:
  http:
    addr: 127.0.0.1:0
    timeout: 5s
  handlers:
    command_timeout: 5s
data:
  postgres:
    dsn: "postgres://placeholder:5432/none?sslmode=disable"
    max_open_conns: 4
    schema: greeting
    schema_mode: none
`

type stack struct {
	baseURL string
	repo    *repositories.GreetingRepository
	pool    *pgxpool.Pool
	bundle  *configloader.Bundle
}

func TestHelloPersistsGreeting(t *testing.T) {
	ctx := context.Background()
	st := startStack(ctx, t)

	total, err := st.repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, total)

	status, body := get(t, st.baseURL+"/hello")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hello !", body)

	total, err = st.repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestHelloEachRequestAddsOneRecord(t *testing.T) {
	ctx := context.Background()
	st := startStack(ctx, t)

	const n = 5
	for i := 0; i < n; i++ {
		status, body := get(t, st.baseURL+"/hello")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "hello !", body)
	}

	total, err := st.repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(n), total)

	messages, err := st.repo.ListMessages(ctx, nil)
	require.NoError(t, err)
	require.Len(t, messages, n)
	for _, msg := range messages {
		require.Equal(t, "hello !", msg)
	}
}

func TestHelloUnreachableDatabase(t *testing.T) {
	ctx := context.Background()
	st := startStack(ctx, t)
	logger := log.NewStdLogger(io.Discard)

	pgCfg := st.bundle.Bootstrap.Data.Postgres
	pgCfg.DSN = fmt.Sprintf("postgres://127.0.0.1:%d/greeting?sslmode=disable", closedPort(t))
	poolCfg, err := database.ParsePoolConfig(pgCfg)
	require.NoError(t, err)
	deadPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	require.NoError(t, err)
	t.Cleanup(deadPool.Close)

	deadURL := serveGreeting(t, deadPool, st.bundle, logger)

	status, body := get(t, deadURL+"/hello")
	require.GreaterOrEqual(t, status, 500)
	require.Less(t, status, 600)
	require.NotEqual(t, "hello !", body)

	total, err := st.repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, total)

	status, _ = get(t, deadURL+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, status)
}

// startStack 启动临时数据库，把连接参数注入环境变量后走 configloader.Build 与完整装配。
func startStack(ctx context.Context, t *testing.T) *stack {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)

	resource := testenv.NewPostgresResource(testenv.PostgresOptions{}, logger)
	params, err := resource.Start(ctx)
	switch {
	case errors.Is(err, testenv.ErrContainerStart):
		t.Skipf("skip greeting e2e (instance=%s): %v", resource.InstanceID(), err)
	case errors.Is(err, testenv.ErrStartupTimeout):
		t.Fatalf("postgres did not become ready (instance=%s): %v", resource.InstanceID(), err)
	}
	require.NoError(t, err)
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, resource.Stop(stopCtx))
	})

	confPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(confPath, []byte(e2eConfig), 0o600))
	params.Apply(t.Setenv)

	bundle, err := configloader.Build(configloader.Params{ConfPath: confPath, ServiceName: "greeting-e2e"})
	require.NoError(t, err)

	pool, cleanupPool, err := database.NewPgxPool(ctx, &bundle.Bootstrap.Data, logger)
	require.NoError(t, err)
	t.Cleanup(cleanupPool)

	return &stack{
		baseURL: serveGreeting(t, pool, bundle, logger),
		repo:    repositories.NewGreetingRepository(pool, logger),
		pool:    pool,
		bundle:  bundle,
	}
}

func serveGreeting(t *testing.T, pool *pgxpool.Pool, bundle *configloader.Bundle, logger log.Logger) string {
	t.Helper()
	tx, err := database.NewTxManager(pool, bundle.TxConfig, logger)
	require.NoError(t, err)

	svc := services.NewGreetingService(repositories.NewGreetingRepository(pool, logger), tx, logger)
	serverCfg := &bundle.Bootstrap.Server
	handler := controllers.NewGreetingHandler(svc, controllers.NewBaseHandler(controllers.HandlerTimeouts{
		Command: serverCfg.Handlers.CommandTimeout.Duration,
	}))
	tel, cleanupTel, err := server.NewTelemetry(logger)
	require.NoError(t, err)
	t.Cleanup(cleanupTel)

	srv := httptest.NewServer(server.NewHTTPServer(serverCfg, handler, pool, tel, logger))
	t.Cleanup(srv.Close)
	return srv.URL
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
