// Package gormpersistence 提供 repository 接口的 GORM 实现。
package gormpersistence

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntryError 检查 err 是否是唯一约束冲突。
// MySQL 通过驱动的错误码判断，SQLite 只能退回到错误字符串。
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
