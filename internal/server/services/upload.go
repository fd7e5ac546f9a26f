package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/logging"
	"github.com/avdenisov/roost/internal/namex"
	"github.com/avdenisov/roost/internal/server/content"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/repositories/repomanager"
)

// RecordRequest describes a finished upload to be recorded against a
// package version. TmpID is the temporary handle issued by the content
// service while the blob was staged.
type RecordRequest struct {
	Package    string
	Version    string
	EntryPoint string
	HasContent bool
	TmpID      string
}

// Presigner stages raw upload blobs: the client PUTs the blob to a
// presigned URL, then announces it to the content service, which picks it
// up from the staging bucket.
type Presigner interface {
	PresignPut(ctx context.Context) (string, string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type UploadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	resolver    content.Resolver
	presigner   Presigner
	logger      logging.Logger
	now         func() time.Time
}

func NewUploadService(db *sql.DB, repomanager repomanager.RepositoryManager, resolver content.Resolver, presigner Presigner, logger logging.Logger) *UploadService {
	return &UploadService{
		db:          db,
		repomanager: repomanager,
		resolver:    resolver,
		presigner:   presigner,
		logger:      logger,
		now:         time.Now,
	}
}

// PresignUpload issues a fresh storage key and the presigned PUT URL the
// client stages the blob under before calling Record.
func (s *UploadService) PresignUpload(ctx context.Context) (string, string, error) {
	return s.presigner.PresignPut(ctx)
}

// Record persists one upload session. A request without content succeeds
// without touching the store. The temporary handle is resolved before the
// transaction opens; holding a transaction across an external call would
// pin a connection for the whole round-trip.
func (s *UploadService) Record(ctx context.Context, req RecordRequest) (*PublishResult, error) {
	if !req.HasContent {
		return &PublishResult{OK: true, Message: "no content to record"}, nil
	}

	key, err := namex.Key(req.Package)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, req.TmpID)
	if err != nil {
		return nil, err
	}

	var result *PublishResult

	err = dbx.WithSerializableTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		packageRepo := s.repomanager.Packages(tx)
		uploadRepo := s.repomanager.Uploads(tx)

		pkg, err := packageRepo.GetByCanonicalName(ctx, key)
		if err != nil {
			return err
		}

		now := s.now()
		session := &models.UploadSession{
			Name:       models.UploadName(pkg.Name, req.Version),
			Package:    pkg.Name,
			EntryPoint: req.EntryPoint,
			Version:    req.Version,
			Prefix:     resolved.Prefix,
			Files: models.UploadFiles{
				Manifest:   resolved.RelativePath,
				ContentRef: resolved.TxID,
			},
			CreatedAt: now,
		}

		if _, err := uploadRepo.Create(ctx, session); err != nil {
			return err
		}

		if err := packageRepo.AppendUploadName(ctx, pkg.Name, session.Name, now); err != nil {
			return err
		}

		result = &PublishResult{OK: true, Message: "upload recorded"}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetUpload returns one recorded session by its "package@version" identity.
func (s *UploadService) GetUpload(ctx context.Context, name string) (*models.UploadSession, error) {
	return s.repomanager.Uploads(s.db).GetByName(ctx, name)
}

// ListUploads returns a package's recorded sessions in creation order.
func (s *UploadService) ListUploads(ctx context.Context, pkgName string) ([]*models.UploadSession, error) {
	key, err := namex.Key(pkgName)
	if err != nil {
		return nil, err
	}
	pkg, err := s.repomanager.Packages(s.db).GetByCanonicalName(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Uploads(s.db).ListByPackage(ctx, pkg.Name)
}
