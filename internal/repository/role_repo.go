package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	// CreateWithPermissions inserts the role and its permission grants in one
	// transaction. Permissions are immutable after creation.
	CreateWithPermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error
	// ServiceHasPermission reports whether any role belonging to the service
	// grants the permission. The caller authenticates with the service-wide
	// API key, so the effective grant is the union across all roles.
	ServiceHasPermission(ctx context.Context, serviceID string, permission model.Permission) (bool, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) CreateWithPermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		for _, permission := range permissions {
			grant := model.RolePermission{RoleID: role.ID, Permission: permission}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *roleRepository) ServiceHasPermission(ctx context.Context, serviceID string, permission model.Permission) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.RolePermission{}).
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.service_id = ? AND role_permissions.permission = ?", serviceID, permission).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
