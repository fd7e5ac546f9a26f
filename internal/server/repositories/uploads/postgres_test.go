package uploads

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avdenisov/roost/internal/common"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uploadCols = []string{"name", "package", "entry_point", "version", "prefix", "files", "created_at"}

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func sampleSession() *models.UploadSession {
	return &models.UploadSession{
		Name:       "Eggs@1.0.0",
		Package:    "Eggs",
		EntryPoint: "mod.ts",
		Version:    "1.0.0",
		Prefix:     "https://cdn.example.com/tx-1",
		Files: models.UploadFiles{
			Manifest:   "mod.ts",
			ContentRef: "tx-1",
		},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMock(t)
	s := sampleSession()

	mock.ExpectQuery(`INSERT INTO package_uploads`).
		WithArgs(s.Name, s.Package, s.EntryPoint, s.Version, s.Prefix, s.Files, s.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(s.CreatedAt))

	created, err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, s.CreatedAt, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateVersion(t *testing.T) {
	repo, mock := newMock(t)
	s := sampleSession()

	mock.ExpectQuery(`INSERT INTO package_uploads`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "package_uploads_pkey"})

	_, err := repo.Create(context.Background(), s)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestGetByName(t *testing.T) {
	repo, mock := newMock(t)
	s := sampleSession()

	files := []byte(`{"manifest":"mod.ts","content_ref":"tx-1"}`)
	mock.ExpectQuery(`SELECT .+ FROM package_uploads WHERE name`).
		WithArgs("Eggs@1.0.0").
		WillReturnRows(sqlmock.NewRows(uploadCols).
			AddRow(s.Name, s.Package, s.EntryPoint, s.Version, s.Prefix, files, s.CreatedAt))

	got, err := repo.GetByName(context.Background(), "Eggs@1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "Eggs", got.Package)
	assert.Equal(t, "tx-1", got.Files.ContentRef)
}

func TestGetByName_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .+ FROM package_uploads WHERE name`).
		WithArgs("Missing@0.0.1").
		WillReturnRows(sqlmock.NewRows(uploadCols))

	_, err := repo.GetByName(context.Background(), "Missing@0.0.1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByPackage(t *testing.T) {
	repo, mock := newMock(t)
	s := sampleSession()

	files := []byte(`{}`)
	mock.ExpectQuery(`SELECT .+ FROM package_uploads WHERE package = \$1 ORDER BY created_at`).
		WithArgs("Eggs").
		WillReturnRows(sqlmock.NewRows(uploadCols).
			AddRow(s.Name, s.Package, s.EntryPoint, s.Version, s.Prefix, files, s.CreatedAt))

	got, err := repo.ListByPackage(context.Background(), "Eggs")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Eggs@1.0.0", got[0].Name)
}
