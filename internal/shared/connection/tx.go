package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a gorm handle bound to ctx that runs on tx when one is set,
// letting repositories join a transaction opened on the raw *sql.DB.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}
