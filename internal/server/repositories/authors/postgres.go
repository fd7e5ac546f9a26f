package authors

import (
	"context"
	"fmt"

	"github.com/avdenisov/roost/internal/common"
	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/shared/pgerr"
	"github.com/lib/pq"
)

const authorColumns = `name, canonical_name, credential, secret_hash, secret_salt, package_names, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAuthor(row interface{ Scan(dest ...any) error }) (*models.Author, error) {
	a := &models.Author{}
	err := row.Scan(&a.Name, &a.CanonicalName, &a.Credential, &a.SecretHash,
		&a.SecretSalt, pq.Array(&a.PackageNames), &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, author *models.Author) (*models.Author, error) {

	query :=
		`INSERT INTO authors (name, canonical_name, credential, secret_hash, secret_salt, package_names, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	names := author.PackageNames
	if names == nil {
		names = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		author.Name, author.CanonicalName, author.Credential,
		author.SecretHash, author.SecretSalt, pq.Array(names), author.CreatedAt,
	).Scan(&author.CreatedAt)

	if err != nil {
		return nil, pgerr.Map(err)
	}

	return author, nil
}

func (r *PostgresRepository) GetByCanonicalName(ctx context.Context, key string) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE canonical_name = $1`

	a, err := scanAuthor(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByCredential(ctx context.Context, credential string) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE credential = $1`

	a, err := scanAuthor(r.db.QueryRowContext(ctx, query, credential))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetOwner(ctx context.Context, credential, packageName string) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE credential = $1 AND $2 = ANY(package_names)`

	a, err := scanAuthor(r.db.QueryRowContext(ctx, query, credential, packageName))
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return a, nil
}

func (r *PostgresRepository) AppendPackageName(ctx context.Context, authorName, packageName string) error {
	query := `UPDATE authors SET package_names = array_append(package_names, $2) WHERE name = $1`

	res, err := r.db.ExecContext(ctx, query, authorName, packageName)
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

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	defer rows.Close()

	var result []*models.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return result, nil
}
