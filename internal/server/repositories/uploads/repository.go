package uploads

import (
	"context"

	"github.com/avdenisov/roost/internal/server/models"
)

// Repository stores upload sessions. Sessions are append-only records of
// version history, so there is no update or delete.
type Repository interface {
	Create(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error)
	GetByName(ctx context.Context, name string) (*models.UploadSession, error)
	ListByPackage(ctx context.Context, pkgName string) ([]*models.UploadSession, error)
}
