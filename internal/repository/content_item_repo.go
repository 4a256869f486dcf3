package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentItemRepository interface {
	Create(ctx context.Context, item *model.ContentItem) error
	// FindByID loads an item only if its content type belongs to serviceID.
	FindByID(ctx context.Context, serviceID string, id uuid.UUID) (*model.ContentItem, error)
	ListByContentType(ctx context.Context, contentTypeID int, offset, limit int) ([]model.ContentItem, int64, error)
	UpdateData(ctx context.Context, id uuid.UUID, data datatypes.JSONMap) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contentItemRepository struct {
	db *gorm.DB
}

func NewContentItemRepository(db *gorm.DB) ContentItemRepository {
	return &contentItemRepository{db: db}
}

func (r *contentItemRepository) Create(ctx context.Context, item *model.ContentItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *contentItemRepository) FindByID(ctx context.Context, serviceID string, id uuid.UUID) (*model.ContentItem, error) {
	var item model.ContentItem
	err := GetDB(ctx, r.db).
		Joins("JOIN content_types ON content_types.id = content_items.content_type_id").
		Where("content_types.service_id = ?", serviceID).
		First(&item, "content_items.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentItemRepository) ListByContentType(ctx context.Context, contentTypeID int, offset, limit int) ([]model.ContentItem, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.ContentItem{}).Where("content_type_id = ?", contentTypeID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.ContentItem
	err := db.Where("content_type_id = ?", contentTypeID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *contentItemRepository) UpdateData(ctx context.Context, id uuid.UUID, data datatypes.JSONMap) error {
	result := GetDB(ctx, r.db).
		Model(&model.ContentItem{}).
		Where("id = ?", id).
		Update("data", data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contentItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ContentItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
