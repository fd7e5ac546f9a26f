package repomanager

import (
	"context"
	"database/sql"

	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/server/repositories/authors"
	"github.com/avdenisov/roost/internal/server/repositories/packages"
	"github.com/avdenisov/roost/internal/server/repositories/uploads"
)

// RepositoryManager binds repositories to a database handle. Passing a
// *sql.Tx instead of the pool gives transactional variants of the same
// repositories.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Authors(db dbx.DBTX) authors.Repository
	Packages(db dbx.DBTX) packages.Repository
	Uploads(db dbx.DBTX) uploads.Repository
}
