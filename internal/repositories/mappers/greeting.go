package mappers

import (
	"github.com/bionicotaku/lingo-services-greeting/internal/models/po"
	greetingsql "github.com/bionicotaku/lingo-services-greeting/internal/repositories/sqlc"
)

// GreetingFromRow 将 sqlc 行转换为持久化对象。
func GreetingFromRow(row greetingsql.GreetingGreeting) *po.Greeting {
	return &po.Greeting{
		ID:      row.ID,
		Message: row.Message,
	}
}
