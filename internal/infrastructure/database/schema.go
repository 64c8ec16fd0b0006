package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bionicotaku/lingo-services-greeting/migrations"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaMode 控制启动时对表结构的处理方式。
type SchemaMode string

const (
	// SchemaModeNone 不触碰表结构。
	SchemaModeNone SchemaMode = "none"
	// SchemaModeCreate 执行内嵌 DDL（幂等的 CREATE ... IF NOT EXISTS）。
	SchemaModeCreate SchemaMode = "create"
	// SchemaModeDropAndCreate 先删除业务表再重建，会清空已有数据。
	SchemaModeDropAndCreate SchemaMode = "drop-and-create"
	// SchemaModeValidate 仅校验业务表存在，缺失时启动失败。
	SchemaModeValidate SchemaMode = "validate"
)

const (
	greetingsTable     = "greeting.greetings"
	dropGreetingsTable = `DROP TABLE IF EXISTS greeting.greetings`
	greetingsRegclass  = `SELECT to_regclass('greeting.greetings') IS NOT NULL`
)

// ParseSchemaMode 解析配置值，空字符串视为 none。
func ParseSchemaMode(raw string) (SchemaMode, error) {
	switch mode := SchemaMode(raw); mode {
	case "":
		return SchemaModeNone, nil
	case SchemaModeNone, SchemaModeCreate, SchemaModeDropAndCreate, SchemaModeValidate:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown schema mode %q", raw)
	}
}

// ApplySchema 按 mode 处理表结构。
func ApplySchema(ctx context.Context, pool *pgxpool.Pool, mode SchemaMode, logger log.Logger) error {
	helper := log.NewHelper(logger)
	switch mode {
	case SchemaModeNone, "":
		return nil
	case SchemaModeValidate:
		var exists bool
		if err := pool.QueryRow(ctx, greetingsRegclass).Scan(&exists); err != nil {
			return fmt.Errorf("validate schema: %w", err)
		}
		if !exists {
			return fmt.Errorf("validate schema: table %s does not exist", greetingsTable)
		}
		return nil
	case SchemaModeDropAndCreate:
		if _, err := pool.Exec(ctx, dropGreetingsTable); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
		helper.Warnf("schema dropped: table=%s", greetingsTable)
	case SchemaModeCreate:
	default:
		return fmt.Errorf("unknown schema mode %q", mode)
	}

	applied, err := applyMigrations(ctx, pool)
	if err != nil {
		return err
	}
	helper.Infof("schema generated: mode=%s scripts=%v", mode, applied)
	return nil
}

// applyMigrations 按文件名顺序执行内嵌的 *.sql 脚本。
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(script)); err != nil {
			return nil, fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return names, nil
}
