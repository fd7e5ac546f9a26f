package authors

import (
	"context"

	"github.com/avdenisov/roost/internal/server/models"
)

// Repository is the author store. AppendPackageName exists only to be
// called inside the same transaction as a package create; binding the
// repository to a dbx.DBTX transaction handle enforces that at the call
// site.
type Repository interface {
	Create(ctx context.Context, author *models.Author) (*models.Author, error)
	GetByCanonicalName(ctx context.Context, key string) (*models.Author, error)
	GetByCredential(ctx context.Context, credential string) (*models.Author, error)
	// GetOwner resolves the author whose credential matches AND whose
	// owned-package set already contains packageName. ErrNotFound means
	// "not an owner", it says nothing about the package's existence.
	GetOwner(ctx context.Context, credential, packageName string) (*models.Author, error)
	AppendPackageName(ctx context.Context, authorName, packageName string) error
	List(ctx context.Context) ([]*models.Author, error)
}
