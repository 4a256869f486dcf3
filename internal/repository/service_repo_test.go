package repository

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestServiceDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	services := NewServiceRepository(db)

	service := &model.Service{ID: "svc0000000000001", Name: "Blog", APIKey: "key00000000000000000000000000001"}
	require.NoError(t, services.Create(context.Background(), service))

	role := &model.Role{Name: "Admin", ServiceID: service.ID, APIKey: service.APIKey}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Create(&model.RolePermission{RoleID: role.ID, Permission: model.PermissionRead}).Error)

	contentType := &model.ContentType{Name: "Article", ServiceID: service.ID}
	require.NoError(t, db.Create(contentType).Error)
	field := &model.Field{ContentTypeID: contentType.ID, DisplayID: "title", FieldType: model.FieldTypeText, Required: true}
	require.NoError(t, db.Create(field).Error)
	item := &model.ContentItem{ContentTypeID: contentType.ID, Data: datatypes.JSONMap{"title": "Hello"}}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, services.DeleteCascade(context.Background(), service.ID))

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"services", &model.Service{}},
		{"roles", &model.Role{}},
		{"role_permissions", &model.RolePermission{}},
		{"content_types", &model.ContentType{}},
		{"fields", &model.Field{}},
		{"content_items", &model.ContentItem{}},
	} {
		var count int64
		require.NoError(t, db.Model(probe.model).Count(&count).Error)
		assert.Zerof(t, count, "expected no %s rows after cascade delete", probe.name)
	}
}

func TestServiceDeleteCascadeMissingService(t *testing.T) {
	db := setupTestDB(t)
	services := NewServiceRepository(db)

	err := services.DeleteCascade(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestServiceHasPermission(t *testing.T) {
	db := setupTestDB(t)
	services := NewServiceRepository(db)
	roles := NewRoleRepository(db)

	service := &model.Service{ID: "svc0000000000002", Name: "Shop", APIKey: "key00000000000000000000000000002"}
	require.NoError(t, services.Create(context.Background(), service))

	role := &model.Role{Name: "Reader", ServiceID: service.ID}
	require.NoError(t, roles.CreateWithPermissions(context.Background(), role, []model.Permission{model.PermissionRead, model.PermissionCreate}))

	granted, err := roles.ServiceHasPermission(context.Background(), service.ID, model.PermissionRead)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = roles.ServiceHasPermission(context.Background(), service.ID, model.PermissionDelete)
	require.NoError(t, err)
	assert.False(t, granted)

	granted, err = roles.ServiceHasPermission(context.Background(), "other", model.PermissionRead)
	require.NoError(t, err)
	assert.False(t, granted)
}
