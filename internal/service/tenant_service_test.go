package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTenantService(db *gorm.DB) TenantService {
	return NewTenantService(
		repository.NewServiceRepository(db),
		repository.NewRoleRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)
}

func seedAdmin(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{Username: "admin", Email: "admin@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateServiceSeedsAdminRole(t *testing.T) {
	db := setupTestDB(t)
	tenants := newTenantService(db)
	admin := seedAdmin(t, db)

	credentials, err := tenants.CreateService(context.Background(), admin.ID, CreateServiceRequest{Name: "Blog"})
	require.NoError(t, err)
	assert.Len(t, credentials.ServiceID, 16)
	assert.Len(t, credentials.APIKey, 32)

	var role model.Role
	require.NoError(t, db.Where("service_id = ?", credentials.ServiceID).First(&role).Error)
	assert.Equal(t, "Admin", role.Name)
	assert.Equal(t, credentials.APIKey, role.APIKey)

	var permissionCount int64
	require.NoError(t, db.Model(&model.RolePermission{}).Where("role_id = ?", role.ID).Count(&permissionCount).Error)
	assert.EqualValues(t, len(model.AllPermissions), permissionCount)

	var entry model.AuditLog
	require.NoError(t, db.Where("action = ?", model.ActionCreateService).First(&entry).Error)
	assert.Equal(t, credentials.ServiceID, entry.EntityID)
}

func TestCreateRole(t *testing.T) {
	db := setupTestDB(t)
	tenants := newTenantService(db)
	admin := seedAdmin(t, db)

	credentials, err := tenants.CreateService(context.Background(), admin.ID, CreateServiceRequest{Name: "Blog"})
	require.NoError(t, err)

	t.Run("role gets its own key", func(t *testing.T) {
		role, err := tenants.CreateRole(context.Background(), admin.ID, credentials.ServiceID, CreateRoleRequest{
			Name:        "Reader",
			Permissions: []string{"read"},
		})
		require.NoError(t, err)
		assert.Len(t, role.APIKey, 32)
		assert.NotEqual(t, credentials.APIKey, role.APIKey)
	})

	t.Run("unknown permission rejected", func(t *testing.T) {
		_, err := tenants.CreateRole(context.Background(), admin.ID, credentials.ServiceID, CreateRoleRequest{
			Name:        "Broken",
			Permissions: []string{"fly"},
		})
		assert.ErrorIs(t, err, ErrInvalidPermission)
	})

	t.Run("unknown service rejected", func(t *testing.T) {
		_, err := tenants.CreateRole(context.Background(), admin.ID, "missing0000000001", CreateRoleRequest{
			Name:        "Reader",
			Permissions: []string{"read"},
		})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestDeleteService(t *testing.T) {
	db := setupTestDB(t)
	tenants := newTenantService(db)
	admin := seedAdmin(t, db)

	credentials, err := tenants.CreateService(context.Background(), admin.ID, CreateServiceRequest{Name: "Blog"})
	require.NoError(t, err)

	require.NoError(t, tenants.DeleteService(context.Background(), admin.ID, credentials.ServiceID))

	var count int64
	require.NoError(t, db.Model(&model.Service{}).Count(&count).Error)
	assert.Zero(t, count)

	var entry model.AuditLog
	require.NoError(t, db.Where("action = ?", model.ActionDeleteService).First(&entry).Error)
	assert.Equal(t, credentials.ServiceID, entry.EntityID)

	err = tenants.DeleteService(context.Background(), admin.ID, credentials.ServiceID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
