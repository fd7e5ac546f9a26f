package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/logging"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/repositories/authors"
	"github.com/avdenisov/roost/internal/server/repositories/packages"
	"github.com/avdenisov/roost/internal/server/repositories/uploads"
	"github.com/stretchr/testify/require"
)

// newMockDB gives the services a real *sql.DB so transaction begin/commit
// can be asserted, while the repositories themselves are fakes.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

type fakeAuthors struct {
	createFn            func(ctx context.Context, a *models.Author) (*models.Author, error)
	getByCanonicalFn    func(ctx context.Context, key string) (*models.Author, error)
	getByCredentialFn   func(ctx context.Context, credential string) (*models.Author, error)
	getOwnerFn          func(ctx context.Context, credential, packageName string) (*models.Author, error)
	appendPackageNameFn func(ctx context.Context, authorName, packageName string) error
	listFn              func(ctx context.Context) ([]*models.Author, error)
}

func (f *fakeAuthors) Create(ctx context.Context, a *models.Author) (*models.Author, error) {
	return f.createFn(ctx, a)
}
func (f *fakeAuthors) GetByCanonicalName(ctx context.Context, key string) (*models.Author, error) {
	return f.getByCanonicalFn(ctx, key)
}
func (f *fakeAuthors) GetByCredential(ctx context.Context, credential string) (*models.Author, error) {
	return f.getByCredentialFn(ctx, credential)
}
func (f *fakeAuthors) GetOwner(ctx context.Context, credential, packageName string) (*models.Author, error) {
	return f.getOwnerFn(ctx, credential, packageName)
}
func (f *fakeAuthors) AppendPackageName(ctx context.Context, authorName, packageName string) error {
	return f.appendPackageNameFn(ctx, authorName, packageName)
}
func (f *fakeAuthors) List(ctx context.Context) ([]*models.Author, error) {
	return f.listFn(ctx)
}

type fakePackages struct {
	createFn           func(ctx context.Context, p *models.Package) (*models.Package, error)
	getByCanonicalFn   func(ctx context.Context, key string) (*models.Package, error)
	listFn             func(ctx context.Context) ([]*models.Package, error)
	updateMetadataFn   func(ctx context.Context, name string, upd packages.MetadataUpdate) (*models.Package, error)
	appendUploadNameFn func(ctx context.Context, pkgName, uploadName string, updatedAt time.Time) error
}

func (f *fakePackages) Create(ctx context.Context, p *models.Package) (*models.Package, error) {
	return f.createFn(ctx, p)
}
func (f *fakePackages) GetByCanonicalName(ctx context.Context, key string) (*models.Package, error) {
	return f.getByCanonicalFn(ctx, key)
}
func (f *fakePackages) List(ctx context.Context) ([]*models.Package, error) {
	return f.listFn(ctx)
}
func (f *fakePackages) UpdateMetadata(ctx context.Context, name string, upd packages.MetadataUpdate) (*models.Package, error) {
	return f.updateMetadataFn(ctx, name, upd)
}
func (f *fakePackages) AppendUploadName(ctx context.Context, pkgName, uploadName string, updatedAt time.Time) error {
	return f.appendUploadNameFn(ctx, pkgName, uploadName, updatedAt)
}

type fakeUploads struct {
	createFn        func(ctx context.Context, s *models.UploadSession) (*models.UploadSession, error)
	getByNameFn     func(ctx context.Context, name string) (*models.UploadSession, error)
	listByPackageFn func(ctx context.Context, pkgName string) ([]*models.UploadSession, error)
}

func (f *fakeUploads) Create(ctx context.Context, s *models.UploadSession) (*models.UploadSession, error) {
	return f.createFn(ctx, s)
}
func (f *fakeUploads) GetByName(ctx context.Context, name string) (*models.UploadSession, error) {
	return f.getByNameFn(ctx, name)
}
func (f *fakeUploads) ListByPackage(ctx context.Context, pkgName string) ([]*models.UploadSession, error) {
	return f.listByPackageFn(ctx, pkgName)
}

type fakeRepoManager struct {
	authors  *fakeAuthors
	packages *fakePackages
	uploads  *fakeUploads
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *fakeRepoManager) Authors(db dbx.DBTX) authors.Repository             { return f.authors }
func (f *fakeRepoManager) Packages(db dbx.DBTX) packages.Repository           { return f.packages }
func (f *fakeRepoManager) Uploads(db dbx.DBTX) uploads.Repository             { return f.uploads }
