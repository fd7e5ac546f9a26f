// Package services implements the registry's business operations on top of
// the repository layer: author registration, package publication, and
// upload session recording.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avdenisov/roost/internal/common"
	"github.com/avdenisov/roost/internal/cryptox"
	"github.com/avdenisov/roost/internal/dbx"
	"github.com/avdenisov/roost/internal/logging"
	"github.com/avdenisov/roost/internal/namex"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/repositories/packages"
	"github.com/avdenisov/roost/internal/server/repositories/repomanager"
)

// PublishRequest carries everything a publish attempt needs. Credential is
// the opaque author token; Name keeps the caller's display casing.
type PublishRequest struct {
	Credential    string
	Name          string
	Description   string
	RepositoryURL string
	Unlisted      bool
}

// PublishResult is the caller-facing outcome of a publish or record
// operation.
type PublishResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type RegistryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewRegistryService(db *sql.DB, repomanager repomanager.RepositoryManager, logger logging.Logger) *RegistryService {
	return &RegistryService{
		db:          db,
		repomanager: repomanager,
		logger:      logger,
		now:         time.Now,
	}
}

// Publish applies the ownership/existence decision table inside a single
// serializable transaction:
//
//	owner + exists   -> update caller-editable metadata
//	owner + missing  -> NotFound (stale ownership record)
//	other + exists   -> NotAuthorized, nothing mutated
//	other + missing  -> create package and append it to the owner's set
//
// NotAuthorized is deliberately one generic signal: it never distinguishes
// "name taken" from "bad credential". Concurrent duplicate creates race on
// the unique canonical-name index; the loser reports Conflict and is not
// retried here.
func (s *RegistryService) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	key, err := namex.Key(req.Name)
	if err != nil {
		return nil, err
	}

	var result *PublishResult

	err = dbx.WithSerializableTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		authorRepo := s.repomanager.Authors(tx)
		packageRepo := s.repomanager.Packages(tx)

		owner, err := authorRepo.GetOwner(ctx, req.Credential, req.Name)
		isOwner := err == nil
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		existing, err := packageRepo.GetByCanonicalName(ctx, key)
		exists := err == nil
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		switch {
		case isOwner && exists:
			_, err := packageRepo.UpdateMetadata(ctx, existing.Name, packages.MetadataUpdate{
				Description:   req.Description,
				RepositoryURL: req.RepositoryURL,
				Unlisted:      req.Unlisted,
				UpdatedAt:     s.now(),
			})
			if err != nil {
				return err
			}
			result = &PublishResult{OK: true, Message: "package successfully updated"}
			return nil

		case isOwner && !exists:
			// the owned set names a package that has no row
			s.logger.Warn(ctx, "stale ownership record", "author", owner.Name, "package", req.Name)
			return common.ErrNotFound

		case !isOwner && exists:
			return common.ErrNotAuthorized

		default:
			author, err := authorRepo.GetByCredential(ctx, req.Credential)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.ErrNotAuthorized
				}
				return err
			}

			now := s.now()
			pkg := &models.Package{
				Name:          req.Name,
				CanonicalName: key,
				Owner:         author.Name,
				Description:   req.Description,
				RepositoryURL: req.RepositoryURL,
				Unlisted:      req.Unlisted,
				UploadNames:   []string{},
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if _, err := packageRepo.Create(ctx, pkg); err != nil {
				return err
			}
			if err := authorRepo.AppendPackageName(ctx, author.Name, req.Name); err != nil {
				return err
			}
			result = &PublishResult{OK: true, Message: "package successfully created"}
			return nil
		}
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegisterAuthor creates an account, issues its credential and stores the
// secret only as an argon2id hash. The credential is returned exactly once.
func (s *RegistryService) RegisterAuthor(ctx context.Context, name, secret string) (*models.Author, error) {
	key, err := namex.Key(name)
	if err != nil {
		return nil, err
	}

	credential, err := cryptox.NewCredential()
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}

	author := &models.Author{
		Name:          name,
		CanonicalName: key,
		Credential:    credential,
		SecretHash:    cryptox.HashSecret(secret, salt),
		SecretSalt:    salt,
		PackageNames:  []string{},
		CreatedAt:     s.now(),
	}

	return s.repomanager.Authors(s.db).Create(ctx, author)
}

// AuthenticateAuthor verifies an account secret and returns the full
// record, credential included. This is the recovery path for an author who
// lost their token.
func (s *RegistryService) AuthenticateAuthor(ctx context.Context, name, secret string) (*models.Author, error) {
	key, err := namex.Key(name)
	if err != nil {
		return nil, err
	}

	author, err := s.repomanager.Authors(s.db).GetByCanonicalName(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotAuthorized
		}
		return nil, err
	}

	if !cryptox.VerifySecret(secret, author.SecretSalt, author.SecretHash) {
		return nil, common.ErrNotAuthorized
	}
	return author, nil
}

// GetPackage looks a package up by any spelling of its name.
func (s *RegistryService) GetPackage(ctx context.Context, name string) (*models.Package, error) {
	key, err := namex.Key(name)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Packages(s.db).GetByCanonicalName(ctx, key)
}

func (s *RegistryService) ListPackages(ctx context.Context) ([]*models.Package, error) {
	return s.repomanager.Packages(s.db).List(ctx)
}

// GetAuthorByName returns the public view of an account: no credential, no
// secret material.
func (s *RegistryService) GetAuthorByName(ctx context.Context, name string) (*models.PublicAuthor, error) {
	key, err := namex.Key(name)
	if err != nil {
		return nil, err
	}
	author, err := s.repomanager.Authors(s.db).GetByCanonicalName(ctx, key)
	if err != nil {
		return nil, err
	}
	return author.Public(), nil
}

// GetAuthorByCredential resolves the account a credential belongs to, for
// "who am I" lookups.
func (s *RegistryService) GetAuthorByCredential(ctx context.Context, credential string) (*models.Author, error) {
	return s.repomanager.Authors(s.db).GetByCredential(ctx, credential)
}
