// Package po defines persistence-oriented data objects shared by repositories.
package po

// Greeting 对应 greeting.greetings 表中的一行记录。
// ID 由数据库分配（BIGSERIAL），写入后不可变。
type Greeting struct {
	ID      int64
	Message string
}
