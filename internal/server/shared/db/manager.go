// Package db wires the persistence layer together: it opens the database,
// runs migrations, and hands out repositories. The manager owns the
// connection lifecycle; callers close it on shutdown.
package db

import (
	"context"
	"database/sql"

	"github.com/saedev/sae-auth/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}
