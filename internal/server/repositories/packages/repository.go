package packages

import (
	"context"
	"time"

	"github.com/avdenisov/roost/internal/server/models"
)

// MetadataUpdate carries the caller-editable fields of a package. Flags
// like locked and malicious are moderation state and are deliberately
// absent.
type MetadataUpdate struct {
	Description   string
	RepositoryURL string
	Unlisted      bool
	UpdatedAt     time.Time
}

type Repository interface {
	Create(ctx context.Context, pkg *models.Package) (*models.Package, error)
	GetByCanonicalName(ctx context.Context, key string) (*models.Package, error)
	List(ctx context.Context) ([]*models.Package, error)
	UpdateMetadata(ctx context.Context, name string, upd MetadataUpdate) (*models.Package, error)
	AppendUploadName(ctx context.Context, pkgName, uploadName string, updatedAt time.Time) error
}
