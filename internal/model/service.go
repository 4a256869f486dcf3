package model

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a verb-aligned capability a role can grant.
type Permission string

const (
	PermissionCreate  Permission = "create"
	PermissionRead    Permission = "read"
	PermissionUpdate  Permission = "update"
	PermissionReplace Permission = "replace"
	PermissionDelete  Permission = "delete"
)

// AllPermissions is the full grant given to the auto-created Admin role.
var AllPermissions = []Permission{
	PermissionCreate,
	PermissionRead,
	PermissionUpdate,
	PermissionReplace,
	PermissionDelete,
}

// ParsePermission validates a client-supplied permission name.
func ParsePermission(s string) (Permission, bool) {
	switch Permission(s) {
	case PermissionCreate, PermissionRead, PermissionUpdate, PermissionReplace, PermissionDelete:
		return Permission(s), true
	}
	return "", false
}

// PermissionForMethod maps an HTTP verb to the permission guarding it.
func PermissionForMethod(method string) (Permission, bool) {
	switch method {
	case http.MethodPost:
		return PermissionCreate, true
	case http.MethodGet:
		return PermissionRead, true
	case http.MethodPut:
		return PermissionUpdate, true
	case http.MethodPatch:
		return PermissionReplace, true
	case http.MethodDelete:
		return PermissionDelete, true
	}
	return "", false
}

// Service is an isolated content namespace (tenant) authenticated by an API key.
// The id and api_key are opaque generated strings, never sequential.
type Service struct {
	ID           string        `gorm:"type:varchar(16);primaryKey" json:"id"`
	Name         string        `gorm:"type:varchar(255);not null" json:"name"`
	APIKey       string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"-"`
	Roles        []Role        `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"roles,omitempty"`
	ContentTypes []ContentType `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"content_types,omitempty"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// Role is a named bundle of permissions scoped to one service. Roles carry their
// own API key, handed out once at creation time.
type Role struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(50);not null" json:"name"`
	ServiceID   string           `gorm:"type:varchar(16);not null;index" json:"service_id"`
	APIKey      string           `gorm:"type:varchar(32)" json:"-"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"permissions,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RolePermission is the role <-> permission join row.
type RolePermission struct {
	RoleID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"role_id"`
	Permission Permission `gorm:"type:varchar(16);primaryKey" json:"permission"`
}
