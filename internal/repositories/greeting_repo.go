// Package repositories 提供数据访问层实现，负责与持久化存储交互。
// 该层实现 Service 层定义的 Repository 接口，隔离底层存储细节。
package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-greeting/internal/models/po"
	"github.com/bionicotaku/lingo-services-greeting/internal/repositories/mappers"
	greetingsql "github.com/bionicotaku/lingo-services-greeting/internal/repositories/sqlc"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GreetingRepository 基于 sqlc Queries 读写 greeting.greetings。
// 传入非 nil 的 txmanager.Session 时，所有语句在该事务内执行。
type GreetingRepository struct {
	db      *pgxpool.Pool
	queries *greetingsql.Queries
	log     *log.Helper
}

// NewGreetingRepository 构造 GreetingRepository 实例。
func NewGreetingRepository(db *pgxpool.Pool, logger log.Logger) *GreetingRepository {
	return &GreetingRepository{
		db:      db,
		queries: greetingsql.New(db),
		log:     log.NewHelper(logger),
	}
}

// Create 插入一条问候记录并返回数据库分配的 ID。
func (r *GreetingRepository) Create(ctx context.Context, sess txmanager.Session, message string) (*po.Greeting, error) {
	row, err := r.queriesFor(sess).InsertGreeting(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("insert greeting: %w", err)
	}
	return mappers.GreetingFromRow(row), nil
}

// Count 返回已持久化的问候记录总数。
func (r *GreetingRepository) Count(ctx context.Context, sess txmanager.Session) (int64, error) {
	total, err := r.queriesFor(sess).CountGreetings(ctx)
	if err != nil {
		return 0, fmt.Errorf("count greetings: %w", err)
	}
	return total, nil
}

// ListMessages 按插入顺序返回全部 message 字段。
func (r *GreetingRepository) ListMessages(ctx context.Context, sess txmanager.Session) ([]string, error) {
	messages, err := r.queriesFor(sess).ListGreetingMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list greeting messages: %w", err)
	}
	return messages, nil
}

func (r *GreetingRepository) queriesFor(sess txmanager.Session) *greetingsql.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}
