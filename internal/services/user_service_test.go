package services

import (
	"context"
	"testing"

	"github.com/realapp/realapp-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUserService_Create_HashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := &mockUserRepo{}
	service := NewUserService(repo, nil)

	var created *models.User
	repo.mockCreate = func(ctx context.Context, user *models.User) error {
		created = user
		return nil
	}

	user := &models.User{
		Email:    "Admin@RealApp.Dev",
		FullName: "Site Admin",
		Role:     models.RoleSalesManager,
	}
	err := service.Create(context.Background(), user, "s3cret-pass", 1)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "admin@realapp.dev", created.Email)
	assert.NotEqual(t, "s3cret-pass", created.EncryptedPassword)
	assert.True(t, VerifyPassword("s3cret-pass", created.EncryptedPassword))
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	hash, err := HashPassword("old-password")
	assert.NoError(t, err)

	repo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, EncryptedPassword: hash}, nil
		},
		mockUpdate: func(ctx context.Context, user *models.User) error {
			t.Fatal("update should not be called when the current password is wrong")
			return nil
		},
	}
	service := NewUserService(repo, nil)

	err = service.ChangePassword(context.Background(), 7, "not-the-old-password", "new-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestUserService_ChangePassword_RotatesHash(t *testing.T) {
	hash, err := HashPassword("old-password")
	assert.NoError(t, err)

	var saved *models.User
	repo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, EncryptedPassword: hash}, nil
		},
		mockUpdate: func(ctx context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	service := NewUserService(repo, nil)

	err = service.ChangePassword(context.Background(), 7, "old-password", "new-password")

	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.True(t, VerifyPassword("new-password", saved.EncryptedPassword))
	assert.False(t, VerifyPassword("old-password", saved.EncryptedPassword))
}
