// internal/app/features/links/handler.go
package links

import (
	"context"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/app/system/auditlog"
	"github.com/dalemusser/linkcatalog/internal/app/system/auth"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"go.uber.org/zap"
)

// Store is what the admin handlers need from the link store.
type Store interface {
	Create(ctx context.Context, l models.Link) (models.Link, error)
	GetByID(ctx context.Context, id string) (models.Link, error)
	List(ctx context.Context, q linkstore.ListQuery) (models.ListResult, error)
	Update(ctx context.Context, id string, f models.LinkFields) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	AllTags(ctx context.Context) ([]models.TagCount, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Handler owns the admin link handlers (list, create, view, edit,
// delete, tags). It is constructed once at startup in bootstrap.
type Handler struct {
	Links      Store
	SessionMgr *auth.SessionManager
	PerPage    int
	MaxBatch   int
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(links Store, sm *auth.SessionManager, perPage, maxBatch int, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Links:      links,
		SessionMgr: sm,
		PerPage:    perPage,
		MaxBatch:   maxBatch,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
	}
}
