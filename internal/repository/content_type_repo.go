package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ContentTypeRepository interface {
	Create(ctx context.Context, contentType *model.ContentType) error
	// FindByID loads the content type and its fields in schema order, scoped
	// to the owning service so one tenant can never read another's schema.
	FindByID(ctx context.Context, serviceID string, id int) (*model.ContentType, error)
}

type contentTypeRepository struct {
	db *gorm.DB
}

func NewContentTypeRepository(db *gorm.DB) ContentTypeRepository {
	return &contentTypeRepository{db: db}
}

func (r *contentTypeRepository) Create(ctx context.Context, contentType *model.ContentType) error {
	return GetDB(ctx, r.db).Create(contentType).Error
}

func (r *contentTypeRepository) FindByID(ctx context.Context, serviceID string, id int) (*model.ContentType, error) {
	var contentType model.ContentType
	err := GetDB(ctx, r.db).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("service_id = ?", serviceID).
		First(&contentType, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contentType, nil
}
