package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FieldType is the closed set of types a schema field can declare.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
)

// ParseFieldType validates a client-supplied field type name.
func ParseFieldType(s string) (FieldType, bool) {
	switch FieldType(s) {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeBoolean:
		return FieldType(s), true
	}
	return "", false
}

// ContentType is a named schema owned by a service. Its schema is the ordered
// set of fields, in creation order.
type ContentType struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	ServiceID string    `gorm:"type:varchar(16);not null;index" json:"service_id"`
	Fields    []Field   `gorm:"foreignKey:ContentTypeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"fields,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Field declares one typed key of a content type. DisplayID is the key used in
// content documents and is unique within its content type.
type Field struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentTypeID int       `gorm:"not null;uniqueIndex:idx_fields_type_display" json:"content_type_id"`
	DisplayID     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_fields_type_display" json:"display_id"`
	FieldType     FieldType `gorm:"type:varchar(16);not null" json:"field_type"`
	Required      bool      `gorm:"not null;default:false" json:"required"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Field) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ContentItem is one JSON document conforming to a content type's schema.
// Data holds only keys that passed validation; unknown keys are filtered out
// before the row is written.
type ContentItem struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ContentTypeID int               `gorm:"not null;index" json:"content_type_id"`
	Data          datatypes.JSONMap `gorm:"not null" json:"data"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
