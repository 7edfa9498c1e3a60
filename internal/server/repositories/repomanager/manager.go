package repomanager

import (
	"context"
	"database/sql"

	"github.com/qqtag/stickerfind/internal/dbx"
	"github.com/qqtag/stickerfind/internal/server/repositories/batches"
	"github.com/qqtag/stickerfind/internal/server/repositories/qrcodes"
	"github.com/qqtag/stickerfind/internal/server/repositories/refreshtokens"
	"github.com/qqtag/stickerfind/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	QRCodes(db dbx.DBTX) qrcodes.Repository
	Batches(db dbx.DBTX) batches.Repository
}
