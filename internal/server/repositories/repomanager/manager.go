package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkolesni/timecapsule/internal/dbx"
	"github.com/dkolesni/timecapsule/internal/server/repositories/capsules"
	"github.com/dkolesni/timecapsule/internal/server/repositories/files"
	"github.com/dkolesni/timecapsule/internal/server/repositories/refreshtokens"
	"github.com/dkolesni/timecapsule/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Capsules(db dbx.DBTX) capsules.Repository
	Files(db dbx.DBTX) files.Repository
}
