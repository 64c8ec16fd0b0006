package testenv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-services-greeting/internal/infrastructure/database"

	"github.com/docker/go-connections/nat"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
)

const (
	defaultImage    = "postgres:16-alpine"
	defaultDatabase = "greeting"
	defaultUsername = "postgres"
	defaultPassword = "postgres"

	postgresPort     = nat.Port("5432/tcp")
	instanceLabel    = "greeting.testenv.instance"
	terminateTimeout = 10 * time.Second
	pingTimeout      = 2 * time.Second
)

// ErrContainerStart 表示容器运行时不可用或镜像无法拉取/创建，测试通常据此 Skip。
// 容器已创建但数据库迟迟不可用属于 ErrStartupTimeout，不会落入该错误。
var ErrContainerStart = errors.New("testenv: start container")

// PostgresOptions 控制临时数据库容器。零值字段使用默认值。
type PostgresOptions struct {
	Image      string
	Database   string
	Username   string
	Password   string
	SchemaMode string
	// Cmd 覆盖镜像默认命令，例如 {"postgres", "-c", "fsync=off"}。
	Cmd       []string
	Readiness ReadinessPolicy
}

func (o PostgresOptions) withDefaults() PostgresOptions {
	if o.Image == "" {
		o.Image = defaultImage
	}
	if o.Database == "" {
		o.Database = defaultDatabase
	}
	if o.Username == "" {
		o.Username = defaultUsername
	}
	if o.Password == "" {
		o.Password = defaultPassword
	}
	if o.SchemaMode == "" {
		o.SchemaMode = string(database.SchemaModeCreate)
	}
	o.Readiness = o.Readiness.normalize()
	return o
}

// PostgresResource 管理一次测试运行中的 PostgreSQL 容器。
type PostgresResource struct {
	opts       PostgresOptions
	instanceID string
	log        *log.Helper
	logger     log.Logger

	mu        sync.Mutex
	container testcontainers.Container
}

// NewPostgresResource 构造资源，不会立即启动容器。
func NewPostgresResource(opts PostgresOptions, logger log.Logger) *PostgresResource {
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &PostgresResource{
		opts:       opts.withDefaults(),
		instanceID: uuid.NewString(),
		log:        log.NewHelper(log.With(logger, "module", "testenv.postgres")),
		logger:     logger,
	}
}

// InstanceLabel 是写入容器的 label 键，值为 PostgresResource.InstanceID。
const InstanceLabel = instanceLabel

// InstanceID 返回写入容器 label 的实例标识。
func (r *PostgresResource) InstanceID() string {
	return r.instanceID
}

// Start 启动容器并等待数据库可接受连接，返回可直接交给 configloader 的连接参数。
//
// 就绪轮询超出上限时返回的错误满足 errors.Is(err, ErrStartupTimeout)，容器会被回收。
func (r *PostgresResource) Start(ctx context.Context) (ConnectionParams, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.container != nil {
		return ConnectionParams{}, fmt.Errorf("testenv: postgres already started: instance=%s", r.instanceID)
	}

	req := testcontainers.ContainerRequest{
		Image:        r.opts.Image,
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_USER":     r.opts.Username,
			"POSTGRES_PASSWORD": r.opts.Password,
			"POSTGRES_DB":       r.opts.Database,
		},
		Labels: map[string]string{instanceLabel: r.instanceID},
		Cmd:    r.opts.Cmd,
	}

	// 端口监听、Running 状态与 Ping 统一由下面的有界轮询判定。
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if container != nil {
			r.terminate(container)
		}
		return ConnectionParams{}, fmt.Errorf("%w: %v", ErrContainerStart, err)
	}

	var dsn string
	check := func(ctx context.Context) (bool, error) {
		state, err := container.State(ctx)
		if err != nil {
			return false, fmt.Errorf("inspect container: %w", err)
		}
		if !state.Running {
			return false, nil
		}
		if dsn == "" {
			resolved, err := containerDSN(ctx, container, r.opts)
			if err != nil {
				return false, err
			}
			dsn = resolved
		}
		return pingPostgres(ctx, dsn, r.opts.Username, r.opts.Password)
	}
	if err := WaitUntilReady(ctx, check, r.opts.Readiness, r.logger); err != nil {
		r.terminate(container)
		return ConnectionParams{}, err
	}

	r.container = container
	r.log.WithContext(ctx).Infof("postgres ready: instance=%s image=%s", r.instanceID, r.opts.Image)
	return ConnectionParams{
		Kind:       KindPostgres,
		Username:   r.opts.Username,
		Password:   r.opts.Password,
		URL:        dsn,
		SchemaMode: r.opts.SchemaMode,
	}, nil
}

// Stop 终止容器，可重复调用。
func (r *PostgresResource) Stop(ctx context.Context) error {
	r.mu.Lock()
	container := r.container
	r.container = nil
	r.mu.Unlock()
	if container == nil {
		return nil
	}
	if err := container.Terminate(ctx); err != nil {
		return fmt.Errorf("testenv: terminate postgres: %w", err)
	}
	r.log.WithContext(ctx).Infof("postgres stopped: instance=%s", r.instanceID)
	return nil
}

func (r *PostgresResource) terminate(container testcontainers.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
	defer cancel()
	if err := container.Terminate(ctx); err != nil {
		r.log.Warnf("terminate postgres failed: instance=%s err=%v", r.instanceID, err)
	}
}

// containerDSN 组装不含凭据的连接 URL，凭据由 DB_USERNAME/DB_PASSWORD 单独注入。
func containerDSN(ctx context.Context, container testcontainers.Container, opts PostgresOptions) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("testenv: container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		return "", fmt.Errorf("testenv: mapped port: %w", err)
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port.Port()),
		Path:     "/" + opts.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String(), nil
}

// pingPostgres 建立一次短连接并 Ping，连接失败视为尚未就绪。
func pingPostgres(ctx context.Context, dsn, username, password string) (bool, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return false, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.User = username
	cfg.Password = password

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	conn, err := pgx.ConnectConfig(pingCtx, cfg)
	if err != nil {
		return false, err
	}
	defer conn.Close(context.Background())
	if err := conn.Ping(pingCtx); err != nil {
		return false, err
	}
	return true, nil
}
