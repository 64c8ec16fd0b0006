package database

import (
	"fmt"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewTxManager 基于连接池构造事务管理器，Service 层通过 WithinTx 划定提交/回滚边界。
func NewTxManager(pool *pgxpool.Pool, cfg txmanager.Config, logger log.Logger) (txmanager.Manager, error) {
	mgr, err := txmanager.NewManager(pool, cfg, txmanager.Dependencies{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create tx manager: %w", err)
	}
	return mgr, nil
}
