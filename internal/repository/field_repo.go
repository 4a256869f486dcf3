package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// FieldRepository is the schema resolver: it hands the validation pipeline the
// ordered field list of a content type.
type FieldRepository interface {
	Create(ctx context.Context, field *model.Field) error
	// ListByContentType returns the fields in schema (creation) order. An
	// empty slice is a valid schema.
	ListByContentType(ctx context.Context, contentTypeID int) ([]model.Field, error)
	ExistsByDisplayID(ctx context.Context, contentTypeID int, displayID string) (bool, error)
}

type fieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) Create(ctx context.Context, field *model.Field) error {
	return GetDB(ctx, r.db).Create(field).Error
}

func (r *fieldRepository) ListByContentType(ctx context.Context, contentTypeID int) ([]model.Field, error) {
	var fields []model.Field
	err := GetDB(ctx, r.db).
		Where("content_type_id = ?", contentTypeID).
		Order("created_at ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepository) ExistsByDisplayID(ctx context.Context, contentTypeID int, displayID string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.Field{}).
		Where("content_type_id = ? AND display_id = ?", contentTypeID, displayID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
