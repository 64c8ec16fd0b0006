package repositories_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-greeting/internal/repositories"
	"github.com/bionicotaku/lingo-services-greeting/internal/testenv"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestGreetingRepository_CreateCountList(t *testing.T) {
	ctx := context.Background()
	logger := log.NewStdLogger(io.Discard)
	pool := startGreetingDB(ctx, t, logger)

	repo := repositories.NewGreetingRepository(pool, logger)

	total, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, total)

	first, err := repo.Create(ctx, nil, "hello !")
	require.NoError(t, err)
	require.Positive(t, first.ID)
	require.Equal(t, "hello !", first.Message)

	second, err := repo.Create(ctx, nil, "hello !")
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	total, err = repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	messages, err := repo.ListMessages(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"hello !", "hello !"}, messages)
}

func TestGreetingRepository_RollbackDiscardsInsert(t *testing.T) {
	ctx := context.Background()
	logger := log.NewStdLogger(io.Discard)
	pool := startGreetingDB(ctx, t, logger)

	repo := repositories.NewGreetingRepository(pool, logger)
	tx, err := database.NewTxManager(pool, txmanager.Config{}, logger)
	require.NoError(t, err)

	boom := errors.New("abort after insert")
	err = tx.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if _, err := repo.Create(txCtx, sess, "hello !"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	total, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, total)

	err = tx.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		_, err := repo.Create(txCtx, sess, "hello !")
		return err
	})
	require.NoError(t, err)

	total, err = repo.Count(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

// startGreetingDB 启动临时 PostgreSQL 并以 schema_mode=create 建好表结构。
func startGreetingDB(ctx context.Context, t *testing.T, logger log.Logger) *pgxpool.Pool {
	t.Helper()

	resource := testenv.NewPostgresResource(testenv.PostgresOptions{
		Cmd: []string{"postgres", "-c", "fsync=off"},
	}, logger)
	params, err := resource.Start(ctx)
	if errors.Is(err, testenv.ErrContainerStart) {
		t.Skipf("skip greeting repository integration (instance=%s): %v", resource.InstanceID(), err)
	}
	require.NoError(t, err)
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, resource.Stop(stopCtx))
	})

	pool, cleanup, err := database.NewPgxPool(ctx, &configloader.DataConfig{
		Postgres: configloader.PostgresConfig{
			Kind:       params.Kind,
			DSN:        params.URL,
			Username:   params.Username,
			Password:   params.Password,
			Schema:     "greeting",
			SchemaMode: params.SchemaMode,
		},
	}, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return pool
}
