package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
)

// Repository reads the order history the receipt number is derived from.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CountOrdersByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) CountOrdersByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
