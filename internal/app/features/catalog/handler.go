// internal/app/features/catalog/handler.go
package catalog

import (
	"context"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	linkstore "github.com/dalemusser/linkcatalog/internal/app/store/links"
	"github.com/dalemusser/linkcatalog/internal/domain/models"
	"go.uber.org/zap"
)

// Store is the read side of the link store.
type Store interface {
	List(ctx context.Context, q linkstore.ListQuery) (models.ListResult, error)
	AllTags(ctx context.Context) ([]models.TagCount, error)
}

// Handler serves the public, read-only listing.
type Handler struct {
	Links   Store
	PerPage int
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(links Store, perPage int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Links:   links,
		PerPage: perPage,
		Log:     logger,
		ErrLog:  errLog,
	}
}
