// Package migrations 内嵌数据库 DDL，供启动期 schema 生成与集成测试共用。
package migrations

import "embed"

// FS 包含按文件名排序执行的 *.sql 脚本。
//
//go:embed *.sql
var FS embed.FS
