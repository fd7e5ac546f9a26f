package packages

import (
	"context"
	"fmt"
	"time"

	"github.com/avdenisov/roost/internal/common"
	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/shared/pgerr"
	"github.com/lib/pq"
)

const packageColumns = `name, canonical_name, owner, description, repository_url, latest_version, latest_stable_version, upload_names, locked, malicious, unlisted, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPackage(row interface{ Scan(dest ...any) error }) (*models.Package, error) {
	p := &models.Package{}
	err := row.Scan(&p.Name, &p.CanonicalName, &p.Owner, &p.Description,
		&p.RepositoryURL, &p.LatestVersion, &p.LatestStableVersion,
		pq.Array(&p.UploadNames), &p.Locked, &p.Malicious, &p.Unlisted,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, pkg *models.Package) (*models.Package, error) {

	query :=
		`INSERT INTO packages (name, canonical_name, owner, description, repository_url, latest_version, latest_stable_version, upload_names, locked, malicious, unlisted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at
		 `

	uploads := pkg.UploadNames
	if uploads == nil {
		uploads = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		pkg.Name, pkg.CanonicalName, pkg.Owner, pkg.Description,
		pkg.RepositoryURL, pkg.LatestVersion, pkg.LatestStableVersion,
		pq.Array(uploads), pkg.Locked, pkg.Malicious, pkg.Unlisted,
		pkg.CreatedAt, pkg.UpdatedAt,
	).Scan(&pkg.CreatedAt)

	if err != nil {
		return nil, pgerr.Map(err)
	}

	return pkg, nil
}

func (r *PostgresRepository) GetByCanonicalName(ctx context.Context, key string) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE canonical_name = $1`

	p, err := scanPackage(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	var result []*models.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateMetadata(ctx context.Context, name string, upd MetadataUpdate) (*models.Package, error) {
	query := `UPDATE packages SET description = $2, repository_url = $3, unlisted = $4, updated_at = $5 WHERE name = $1 RETURNING ` + packageColumns

	p, err := scanPackage(r.db.QueryRowContext(ctx, query,
		name, upd.Description, upd.RepositoryURL, upd.Unlisted, upd.UpdatedAt))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return p, nil
}

func (r *PostgresRepository) AppendUploadName(ctx context.Context, pkgName, uploadName string, updatedAt time.Time) error {
	query := `UPDATE packages SET upload_names = array_append(upload_names, $2), updated_at = $3 WHERE name = $1`

	res, err := r.db.ExecContext(ctx, query, pkgName, uploadName, updatedAt)
	if err != nil {
		return pgerr.Map(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
