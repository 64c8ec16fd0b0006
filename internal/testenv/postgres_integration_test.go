package testenv_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-greeting/internal/testenv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

func startOrSkip(ctx context.Context, t *testing.T, resource *testenv.PostgresResource) testenv.ConnectionParams {
	t.Helper()
	params, err := resource.Start(ctx)
	if errors.Is(err, testenv.ErrContainerStart) {
		t.Skipf("skip testenv integration (instance=%s): %v", resource.InstanceID(), err)
	}
	require.NoError(t, err)
	return params
}

// requireDocker 在容器运行时不可达时跳过测试，之后的启动失败都按真实错误处理。
func requireDocker(ctx context.Context, t *testing.T) {
	t.Helper()
	cli, err := testcontainers.NewDockerClientWithOpts(ctx)
	if err != nil {
		t.Skipf("skip testenv integration: docker client: %v", err)
	}
	defer cli.Close()
	if _, err := cli.Ping(ctx); err != nil {
		t.Skipf("skip testenv integration: docker unavailable: %v", err)
	}
}

// containersWithInstance 统计带有该实例 label 的容器数量（含已停止的）。
func containersWithInstance(ctx context.Context, t *testing.T, instanceID string) int {
	t.Helper()
	cli, err := testcontainers.NewDockerClientWithOpts(ctx)
	require.NoError(t, err)
	defer cli.Close()

	list, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", testenv.InstanceLabel+"="+instanceID)),
	})
	require.NoError(t, err)
	return len(list)
}

func TestPostgresResourceStartStop(t *testing.T) {
	ctx := context.Background()
	resource := testenv.NewPostgresResource(testenv.PostgresOptions{
		Cmd: []string{"postgres", "-c", "fsync=off"},
	}, log.NewStdLogger(io.Discard))
	params := startOrSkip(ctx, t, resource)
	t.Cleanup(func() { _ = resource.Stop(context.Background()) })

	require.Equal(t, testenv.KindPostgres, params.Kind)
	require.Equal(t, "create", params.SchemaMode)
	require.NotContains(t, params.URL, "@")
	require.Equal(t, 1, containersWithInstance(ctx, t, resource.InstanceID()))

	cfg, err := pgx.ParseConfig(params.URL)
	require.NoError(t, err)
	cfg.User = params.Username
	cfg.Password = params.Password
	conn, err := pgx.ConnectConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, conn.Ping(ctx))
	require.NoError(t, conn.Close(ctx))

	_, err = resource.Start(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, testenv.ErrContainerStart)

	stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	require.NoError(t, resource.Stop(stopCtx))
	require.NoError(t, resource.Stop(stopCtx))
	require.Zero(t, containersWithInstance(ctx, t, resource.InstanceID()))
}

// TestPostgresResourceNeverListening 覆盖容器运行但数据库始终不监听端口的情况：
// 必须报告 ErrStartupTimeout 并回收容器，而不是 ErrContainerStart。
func TestPostgresResourceNeverListening(t *testing.T) {
	ctx := context.Background()
	resource := testenv.NewPostgresResource(testenv.PostgresOptions{
		Cmd: []string{"sleep", "300"},
		Readiness: testenv.ReadinessPolicy{
			Interval:    50 * time.Millisecond,
			MaxAttempts: 20,
			Timeout:     10 * time.Second,
		},
	}, log.NewStdLogger(io.Discard))

	requireDocker(ctx, t)

	_, err := resource.Start(ctx)
	require.ErrorIs(t, err, testenv.ErrStartupTimeout)

	var timeoutErr *testenv.StartupTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.LessOrEqual(t, timeoutErr.Attempts, 20)

	require.Zero(t, containersWithInstance(ctx, t, resource.InstanceID()))
	require.NoError(t, resource.Stop(ctx))
}

func TestPostgresResourceStopBeforeStart(t *testing.T) {
	resource := testenv.NewPostgresResource(testenv.PostgresOptions{}, log.NewStdLogger(io.Discard))
	require.NoError(t, resource.Stop(context.Background()))
	require.NotEmpty(t, resource.InstanceID())
}
