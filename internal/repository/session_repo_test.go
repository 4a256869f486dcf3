package repository

import (
	"context"
	"testing"
	"time"

	"backend/internal/database"
	"backend/internal/model"

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

func TestSessionUpsertReplacesPriorSession(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)

	user := &model.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	first := &model.Session{Token: "token-one", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessions.Upsert(context.Background(), first))

	second := &model.Session{Token: "token-two", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessions.Upsert(context.Background(), second))

	// The first token no longer authenticates.
	_, err := sessions.FindByToken(context.Background(), "token-one")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := sessions.FindByToken(context.Background(), "token-two")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	var count int64
	require.NoError(t, db.Model(&model.Session{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSessionDeleteByToken(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionRepository(db)

	user := &model.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	session := &model.Session{Token: "tok", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, sessions.Upsert(context.Background(), session))

	require.NoError(t, sessions.DeleteByToken(context.Background(), "tok"))

	_, err := sessions.FindByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
