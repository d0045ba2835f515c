package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

func setupUserRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// `:memory:` 下多连接各自独立，固定单连接
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return NewUserRepository(db)
}

func TestUserRepositoryCreateHashesPassword(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "alice@example.com", "s3cret1")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	// 落库的是 bcrypt 散列而非明文
	assert.NotEqual(t, "s3cret1", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("wrong")))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Password, got.Password)

	got, err = repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepositoryGetMissing(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryUsernameUnique(t *testing.T) {
	repo := setupUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "alice@example.com", "s3cret1")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "alice", "other@example.com", "s3cret1")
	assert.Error(t, err)
}
