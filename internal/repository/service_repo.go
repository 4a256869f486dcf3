package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	// DeleteCascade removes the service and everything it owns (roles, role
	// permissions, content types, fields, content items) in one transaction.
	// Returns gorm.ErrRecordNotFound if the service does not exist.
	DeleteCascade(ctx context.Context, id string) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return GetDB(ctx, r.db).Create(service).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	var service model.Service
	if err := GetDB(ctx, r.db).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) DeleteCascade(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var service model.Service
		if err := tx.First(&service, "id = ?", id).Error; err != nil {
			return err
		}

		ownedTypes := func() *gorm.DB {
			return tx.Model(&model.ContentType{}).Select("id").Where("service_id = ?", id)
		}
		if err := tx.Where("content_type_id IN (?)", ownedTypes()).Delete(&model.ContentItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type_id IN (?)", ownedTypes()).Delete(&model.Field{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&model.ContentType{}).Error; err != nil {
			return err
		}

		roles := tx.Model(&model.Role{}).Select("id").Where("service_id = ?", id)
		if err := tx.Where("role_id IN (?)", roles).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&model.Role{}).Error; err != nil {
			return err
		}

		return tx.Delete(&service).Error
	})
}
