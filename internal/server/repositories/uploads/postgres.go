package uploads

import (
	"context"

	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/shared/pgerr"
)

const uploadColumns = `name, package, entry_point, version, prefix, files, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUpload(row interface{ Scan(dest ...any) error }) (*models.UploadSession, error) {
	u := &models.UploadSession{}
	err := row.Scan(&u.Name, &u.Package, &u.EntryPoint, &u.Version,
		&u.Prefix, &u.Files, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error) {

	query :=
		`INSERT INTO package_uploads (name, package, entry_point, version, prefix, files, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.Name, session.Package, session.EntryPoint,
		session.Version, session.Prefix, session.Files, session.CreatedAt,
	).Scan(&session.CreatedAt)

	if err != nil {
		return nil, pgerr.Map(err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.UploadSession, error) {
	query := `SELECT ` + uploadColumns + ` FROM package_uploads WHERE name = $1`

	u, err := scanUpload(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return u, nil
}

func (r *PostgresRepository) ListByPackage(ctx context.Context, pkgName string) ([]*models.UploadSession, error) {
	query := `SELECT ` + uploadColumns + ` FROM package_uploads WHERE package = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, pkgName)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	var result []*models.UploadSession
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}
