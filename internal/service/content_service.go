package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DTOs

type CreateContentTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateFieldRequest struct {
	DisplayID string `json:"display_id" binding:"required"`
	FieldType string `json:"field_type" binding:"required"`
	Required  bool   `json:"required"`
}

type CreateContentItemRequest struct {
	Data map[string]interface{} `json:"data"`
}

type FieldResponse struct {
	ID        string `json:"id"`
	DisplayID string `json:"display_id"`
	FieldType string `json:"field_type"`
	Required  bool   `json:"required"`
}

type ContentTypeResponse struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Fields []FieldResponse `json:"fields"`
}

type ContentItemResponse struct {
	ID        string                 `json:"id"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ContentService implements the tenant-facing content operations. Every write
// goes through the validation pipeline first; a partially validated document
// never reaches storage.
type ContentService interface {
	CreateContentType(ctx context.Context, serviceID string, req CreateContentTypeRequest) (*ContentTypeResponse, error)
	GetContentType(ctx context.Context, serviceID string, id int) (*ContentTypeResponse, error)
	CreateField(ctx context.Context, serviceID string, contentTypeID int, req CreateFieldRequest) (*FieldResponse, error)
	CreateContentItem(ctx context.Context, serviceID string, contentTypeID int, doc map[string]interface{}) (*ContentItemResponse, error)
	ListContentItems(ctx context.Context, serviceID string, contentTypeID int, offset, limit int) ([]ContentItemResponse, int64, error)
	GetContentItem(ctx context.Context, serviceID string, itemID uuid.UUID) (*ContentItemResponse, error)
	UpdateContentItem(ctx context.Context, serviceID string, itemID uuid.UUID, doc map[string]interface{}) (*ContentItemResponse, error)
	DeleteContentItem(ctx context.Context, serviceID string, itemID uuid.UUID) error
}

type contentService struct {
	contentTypes repository.ContentTypeRepository
	fields       repository.FieldRepository
	items        repository.ContentItemRepository
}

func NewContentService(contentTypes repository.ContentTypeRepository, fields repository.FieldRepository, items repository.ContentItemRepository) ContentService {
	return &contentService{
		contentTypes: contentTypes,
		fields:       fields,
		items:        items,
	}
}

func (s *contentService) CreateContentType(ctx context.Context, serviceID string, req CreateContentTypeRequest) (*ContentTypeResponse, error) {
	contentType := &model.ContentType{
		Name:      req.Name,
		ServiceID: serviceID,
	}
	if err := s.contentTypes.Create(ctx, contentType); err != nil {
		return nil, fmt.Errorf("failed to create content type: %w", err)
	}
	return toContentTypeResponse(contentType), nil
}

func (s *contentService) GetContentType(ctx context.Context, serviceID string, id int) (*ContentTypeResponse, error) {
	contentType, err := s.resolveContentType(ctx, serviceID, id)
	if err != nil {
		return nil, err
	}
	return toContentTypeResponse(contentType), nil
}

func (s *contentService) CreateField(ctx context.Context, serviceID string, contentTypeID int, req CreateFieldRequest) (*FieldResponse, error) {
	fieldType, ok := model.ParseFieldType(req.FieldType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFieldType, req.FieldType)
	}

	if _, err := s.resolveContentType(ctx, serviceID, contentTypeID); err != nil {
		return nil, err
	}

	exists, err := s.fields.ExistsByDisplayID(ctx, contentTypeID, req.DisplayID)
	if err != nil {
		return nil, fmt.Errorf("failed to check display_id: %w", err)
	}
	if exists {
		return nil, ErrDuplicateField
	}

	field := &model.Field{
		ContentTypeID: contentTypeID,
		DisplayID:     req.DisplayID,
		FieldType:     fieldType,
		Required:      req.Required,
	}
	if err := s.fields.Create(ctx, field); err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	return toFieldResponse(field), nil
}

func (s *contentService) CreateContentItem(ctx context.Context, serviceID string, contentTypeID int, doc map[string]interface{}) (*ContentItemResponse, error) {
	filtered, err := s.validate(ctx, serviceID, contentTypeID, doc)
	if err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		ContentTypeID: contentTypeID,
		Data:          datatypes.JSONMap(filtered),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create content item: %w", err)
	}
	return toContentItemResponse(item), nil
}

func (s *contentService) ListContentItems(ctx context.Context, serviceID string, contentTypeID int, offset, limit int) ([]ContentItemResponse, int64, error) {
	if _, err := s.resolveContentType(ctx, serviceID, contentTypeID); err != nil {
		return nil, 0, err
	}

	items, total, err := s.items.ListByContentType(ctx, contentTypeID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list content items: %w", err)
	}

	responses := make([]ContentItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toContentItemResponse(&items[i]))
	}
	return responses, total, nil
}

func (s *contentService) GetContentItem(ctx context.Context, serviceID string, itemID uuid.UUID) (*ContentItemResponse, error) {
	item, err := s.items.FindByID(ctx, serviceID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentItemNotFound
		}
		return nil, fmt.Errorf("failed to load content item: %w", err)
	}
	return toContentItemResponse(item), nil
}

func (s *contentService) UpdateContentItem(ctx context.Context, serviceID string, itemID uuid.UUID, doc map[string]interface{}) (*ContentItemResponse, error) {
	// Updates with nothing in them are rejected outright; create is allowed to
	// pass an empty document because required-field checks still apply.
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	item, err := s.items.FindByID(ctx, serviceID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentItemNotFound
		}
		return nil, fmt.Errorf("failed to load content item: %w", err)
	}

	filtered, err := s.validate(ctx, serviceID, item.ContentTypeID, doc)
	if err != nil {
		return nil, err
	}

	if err := s.items.UpdateData(ctx, item.ID, datatypes.JSONMap(filtered)); err != nil {
		return nil, fmt.Errorf("failed to update content item: %w", err)
	}

	item.Data = datatypes.JSONMap(filtered)
	item.UpdatedAt = time.Now()
	return toContentItemResponse(item), nil
}

func (s *contentService) DeleteContentItem(ctx context.Context, serviceID string, itemID uuid.UUID) error {
	item, err := s.items.FindByID(ctx, serviceID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentItemNotFound
		}
		return fmt.Errorf("failed to load content item: %w", err)
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}
	return nil
}

// validate resolves the schema and runs the document through the validation
// pipeline. Schema resolution failures surface as storage errors, distinct
// from validation failures.
func (s *contentService) validate(ctx context.Context, serviceID string, contentTypeID int, doc map[string]interface{}) (map[string]interface{}, error) {
	if _, err := s.resolveContentType(ctx, serviceID, contentTypeID); err != nil {
		return nil, err
	}

	fields, err := s.fields.ListByContentType(ctx, contentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}

	return validation.ValidateDocument(fields, doc)
}

func (s *contentService) resolveContentType(ctx context.Context, serviceID string, id int) (*model.ContentType, error) {
	contentType, err := s.contentTypes.FindByID(ctx, serviceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentTypeNotFound
		}
		return nil, fmt.Errorf("failed to load content type: %w", err)
	}
	return contentType, nil
}

func toContentTypeResponse(contentType *model.ContentType) *ContentTypeResponse {
	fields := make([]FieldResponse, 0, len(contentType.Fields))
	for i := range contentType.Fields {
		fields = append(fields, *toFieldResponse(&contentType.Fields[i]))
	}
	return &ContentTypeResponse{
		ID:     contentType.ID,
		Name:   contentType.Name,
		Fields: fields,
	}
}

func toFieldResponse(field *model.Field) *FieldResponse {
	return &FieldResponse{
		ID:        field.ID.String(),
		DisplayID: field.DisplayID,
		FieldType: string(field.FieldType),
		Required:  field.Required,
	}
}

func toContentItemResponse(item *model.ContentItem) *ContentItemResponse {
	return &ContentItemResponse{
		ID:        item.ID.String(),
		Data:      map[string]interface{}(item.Data),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
