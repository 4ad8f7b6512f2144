// Package repomanager wires concrete repository implementations to whatever
// DB handle (connection or transaction) the caller is working with.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/lanternhq/lanternhack/internal/dbx"
	"github.com/lanternhq/lanternhack/internal/server/repositories/accounts"
	"github.com/lanternhq/lanternhack/internal/server/repositories/stations"
)

type RepositoryManager interface {
	Stations(db dbx.DBTX) stations.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
