package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
)

func TestUserService_GetByEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "cook@example.com").Return(&model.User{ID: 3, Email: "cook@example.com"}, nil)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(repo, nil)

	user, err := svc.GetByEmail(context.Background(), "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	_, err = svc.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	repo.AssertExpectations(t)
}
