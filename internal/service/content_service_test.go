package service

import (
	"context"
	"testing"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newContentService(db *gorm.DB) ContentService {
	return NewContentService(
		repository.NewContentTypeRepository(db),
		repository.NewFieldRepository(db),
		repository.NewContentItemRepository(db),
	)
}

func seedArticleType(t *testing.T, db *gorm.DB, svc ContentService, serviceID string) *ContentTypeResponse {
	require.NoError(t, db.Create(&model.Service{ID: serviceID, Name: "Blog", APIKey: "key00000000000000000000000000001"}).Error)

	contentType, err := svc.CreateContentType(context.Background(), serviceID, CreateContentTypeRequest{Name: "Article"})
	require.NoError(t, err)

	_, err = svc.CreateField(context.Background(), serviceID, contentType.ID, CreateFieldRequest{
		DisplayID: "title", FieldType: "text", Required: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateField(context.Background(), serviceID, contentType.ID, CreateFieldRequest{
		DisplayID: "views", FieldType: "number", Required: false,
	})
	require.NoError(t, err)

	return contentType
}

func TestContentItemRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	contentType := seedArticleType(t, db, svc, "svc0000000000001")

	doc := map[string]interface{}{
		"title": "Hello",
		"views": float64(3),
		"extra": true, // not in the schema, must be dropped
	}
	created, err := svc.CreateContentItem(context.Background(), "svc0000000000001", contentType.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"title": "Hello", "views": float64(3)}, created.Data)

	fetched, err := svc.GetContentItem(context.Background(), "svc0000000000001", uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.Data, fetched.Data)
}

func TestContentItemValidationFailures(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	contentType := seedArticleType(t, db, svc, "svc0000000000001")

	t.Run("missing required field", func(t *testing.T) {
		_, err := svc.CreateContentItem(context.Background(), "svc0000000000001", contentType.ID, map[string]interface{}{
			"views": "100",
		})
		var fieldErr *validation.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "title", fieldErr.DisplayID)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := svc.CreateContentItem(context.Background(), "svc0000000000001", contentType.ID, map[string]interface{}{
			"title": "Hi", "views": "lots",
		})
		var fieldErr *validation.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "views", fieldErr.DisplayID)
	})

	t.Run("nothing written on failure", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&model.ContentItem{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestUpdateContentItem(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	contentType := seedArticleType(t, db, svc, "svc0000000000001")

	created, err := svc.CreateContentItem(context.Background(), "svc0000000000001", contentType.ID, map[string]interface{}{
		"title": "v1",
	})
	require.NoError(t, err)
	itemID := uuid.MustParse(created.ID)

	t.Run("empty document rejected", func(t *testing.T) {
		_, err := svc.UpdateContentItem(context.Background(), "svc0000000000001", itemID, map[string]interface{}{})
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("valid update replaces the document", func(t *testing.T) {
		updated, err := svc.UpdateContentItem(context.Background(), "svc0000000000001", itemID, map[string]interface{}{
			"title": "v2", "views": float64(9), "junk": "dropped",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"title": "v2", "views": float64(9)}, updated.Data)

		fetched, err := svc.GetContentItem(context.Background(), "svc0000000000001", itemID)
		require.NoError(t, err)
		assert.Equal(t, updated.Data, fetched.Data)
	})

	t.Run("update must still satisfy required fields", func(t *testing.T) {
		_, err := svc.UpdateContentItem(context.Background(), "svc0000000000001", itemID, map[string]interface{}{
			"views": float64(1),
		})
		var fieldErr *validation.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "title", fieldErr.DisplayID)
	})
}

func TestFieldCreation(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	contentType := seedArticleType(t, db, svc, "svc0000000000001")

	t.Run("duplicate display_id rejected", func(t *testing.T) {
		_, err := svc.CreateField(context.Background(), "svc0000000000001", contentType.ID, CreateFieldRequest{
			DisplayID: "title", FieldType: "text",
		})
		assert.ErrorIs(t, err, ErrDuplicateField)
	})

	t.Run("unknown field type rejected", func(t *testing.T) {
		_, err := svc.CreateField(context.Background(), "svc0000000000001", contentType.ID, CreateFieldRequest{
			DisplayID: "loc", FieldType: "geo",
		})
		assert.ErrorIs(t, err, ErrInvalidFieldType)
	})

	t.Run("field on unknown content type rejected", func(t *testing.T) {
		_, err := svc.CreateField(context.Background(), "svc0000000000001", 9999, CreateFieldRequest{
			DisplayID: "x", FieldType: "text",
		})
		assert.ErrorIs(t, err, ErrContentTypeNotFound)
	})
}

func TestTenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	contentType := seedArticleType(t, db, svc, "svc0000000000001")

	require.NoError(t, db.Create(&model.Service{ID: "svc0000000000002", Name: "Other", APIKey: "key00000000000000000000000000002"}).Error)

	created, err := svc.CreateContentItem(context.Background(), "svc0000000000001", contentType.ID, map[string]interface{}{
		"title": "secret",
	})
	require.NoError(t, err)

	// Another tenant cannot reach this schema or item even with valid ids.
	_, err = svc.GetContentType(context.Background(), "svc0000000000002", contentType.ID)
	assert.ErrorIs(t, err, ErrContentTypeNotFound)

	_, err = svc.GetContentItem(context.Background(), "svc0000000000002", uuid.MustParse(created.ID))
	assert.ErrorIs(t, err, ErrContentItemNotFound)
}

func TestGetContentTypeFieldOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newContentService(db)
	contentType := seedArticleType(t, db, svc, "svc0000000000001")

	fetched, err := svc.GetContentType(context.Background(), "svc0000000000001", contentType.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Fields, 2)
	assert.Equal(t, "title", fetched.Fields[0].DisplayID)
	assert.Equal(t, "views", fetched.Fields[1].DisplayID)
}
