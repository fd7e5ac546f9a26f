// Package httpapi exposes the registry operations over a small JSON API.
// Handlers translate the error taxonomy to status codes and never leak raw
// store errors to clients.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avdenisov/roost/internal/common"
	"github.com/avdenisov/roost/internal/logging"
	"github.com/avdenisov/roost/internal/server/models"
	"github.com/avdenisov/roost/internal/server/services"
)

// Registry is the subset of RegistryService the transport needs.
type Registry interface {
	Publish(ctx context.Context, req services.PublishRequest) (*services.PublishResult, error)
	RegisterAuthor(ctx context.Context, name, secret string) (*models.Author, error)
	GetPackage(ctx context.Context, name string) (*models.Package, error)
	ListPackages(ctx context.Context) ([]*models.Package, error)
	GetAuthorByName(ctx context.Context, name string) (*models.PublicAuthor, error)
	GetAuthorByCredential(ctx context.Context, credential string) (*models.Author, error)
	AuthenticateAuthor(ctx context.Context, name, secret string) (*models.Author, error)
}

// Uploader is the subset of UploadService the transport needs.
type Uploader interface {
	Record(ctx context.Context, req services.RecordRequest) (*services.PublishResult, error)
	GetUpload(ctx context.Context, name string) (*models.UploadSession, error)
	ListUploads(ctx context.Context, pkgName string) ([]*models.UploadSession, error)
	PresignUpload(ctx context.Context) (string, string, error)
}

type Handler struct {
	registry Registry
	uploader Uploader
	logger   logging.Logger
}

func NewHandler(registry Registry, uploader Uploader, logger logging.Logger) *Handler {
	return &Handler{registry: registry, uploader: uploader, logger: logger}
}

// statusFor maps the common sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail renders a taxonomy error. Internal detail stays in the log; the
// client only sees the generic category.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"ok": false, "message": http.StatusText(status)})
		return
	}
	c.JSON(status, gin.H{"ok": false, "message": publicMessage(err)})
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalid):
		return "invalid name"
	case errors.Is(err, common.ErrNotAuthorized):
		return "not authorized"
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrConflict):
		return "conflict"
	default:
		return "unavailable"
	}
}

type registerAuthorRequest struct {
	Name   string `json:"name" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

func (h *Handler) RegisterAuthor(c *gin.Context) {
	var req registerAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
		return
	}

	author, err := h.registry.RegisterAuthor(c.Request.Context(), req.Name, req.Secret)
	if err != nil {
		h.fail(c, err)
		return
	}

	// the only place the credential is ever returned
	c.JSON(http.StatusCreated, gin.H{
		"name":          author.Name,
		"canonicalName": author.CanonicalName,
		"credential":    author.Credential,
		"createdAt":     author.CreatedAt,
	})
}

// Login re-issues the credential for an author who proves the account
// secret.
func (h *Handler) Login(c *gin.Context) {
	var req registerAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
		return
	}

	author, err := h.registry.AuthenticateAuthor(c.Request.Context(), req.Name, req.Secret)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       author.Name,
		"credential": author.Credential,
	})
}

type publishRequest struct {
	Credential    string `json:"credential" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	RepositoryURL string `json:"repositoryUrl"`
	Unlisted      bool   `json:"unlisted"`
}

func (h *Handler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
		return
	}

	res, err := h.registry.Publish(c.Request.Context(), services.PublishRequest{
		Credential:    req.Credential,
		Name:          req.Name,
		Description:   req.Description,
		RepositoryURL: req.RepositoryURL,
		Unlisted:      req.Unlisted,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type recordUploadRequest struct {
	Package    string `json:"package" binding:"required"`
	Version    string `json:"version" binding:"required"`
	EntryPoint string `json:"entryPoint"`
	HasContent bool   `json:"hasContent"`
	TmpID      string `json:"tmpId"`
}

func (h *Handler) RecordUpload(c *gin.Context) {
	var req recordUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
		return
	}

	res, err := h.uploader.Record(c.Request.Context(), services.RecordRequest{
		Package:    req.Package,
		Version:    req.Version,
		EntryPoint: req.EntryPoint,
		HasContent: req.HasContent,
		TmpID:      req.TmpID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// PresignUpload hands the client a staging slot: a storage key plus the
// presigned PUT URL to place the raw blob under.
func (h *Handler) PresignUpload(c *gin.Context) {
	key, url, err := h.uploader.PresignUpload(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

func (h *Handler) GetUpload(c *gin.Context) {
	session, err := h.uploader.GetUpload(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) GetPackage(c *gin.Context) {
	pkg, err := h.registry.GetPackage(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *Handler) ListPackages(c *gin.Context) {
	pkgs, err := h.registry.ListPackages(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if pkgs == nil {
		pkgs = []*models.Package{}
	}
	c.JSON(http.StatusOK, pkgs)
}

func (h *Handler) ListUploads(c *gin.Context) {
	sessions, err := h.uploader.ListUploads(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if sessions == nil {
		sessions = []*models.UploadSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) GetAuthor(c *gin.Context) {
	author, err := h.registry.GetAuthorByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// WhoAmI resolves the account behind the credential in the Authorization
// header and returns its public view.
func (h *Handler) WhoAmI(c *gin.Context) {
	credential := c.GetHeader("Authorization")
	if credential == "" {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "not authorized"})
		return
	}

	author, err := h.registry.GetAuthorByCredential(c.Request.Context(), credential)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = common.ErrNotAuthorized
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, author.Public())
}
