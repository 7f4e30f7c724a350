package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/usecases"
	"docstack.backend/pkg/crypto"
	"docstack.backend/pkg/jwt"
)

func newAuthUsecaseForTest(userRepo *MockUserRepository) *usecases.AuthUsecase {
	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return usecases.NewAuthUsecase(userRepo, jwtSvc)
}

func TestAuthUsecase_Register_EmailAlreadyExists(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAuthUsecaseForTest(userRepo)

	userRepo.On("GetByEmail", context.Background(), "exists@acme.test").
		Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := uc.Register(context.Background(), &entities.CreateUserInput{
		Email:    "exists@acme.test",
		Name:     "Exists",
		Password: "Password123!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAuthUsecaseForTest(userRepo)

	userRepo.On("GetByEmail", context.Background(), "new@acme.test").
		Return(nil, domainerrors.ErrNotFound).Once()

	var stored *entities.User
	userRepo.On("Create", context.Background(), mock.AnythingOfType("*entities.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*entities.User)
			stored.ID = uuid.New()
		}).Return(nil).Once()

	resp, err := uc.Register(context.Background(), &entities.CreateUserInput{
		Email:    "new@acme.test",
		Name:     "New User",
		Password: "Password123!",
	})
	require.NoError(t, err)

	// A fresh registration founds its own workspace as admin.
	assert.NotEqual(t, uuid.Nil, stored.TenantID)
	assert.Equal(t, entities.UserRoleAdmin, stored.Role)
	assert.True(t, crypto.CheckPassword("Password123!", stored.PasswordHash))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, stored, resp.User)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAuthUsecaseForTest(userRepo)

	userRepo.On("GetByEmail", context.Background(), "missing@acme.test").
		Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Login(context.Background(), &entities.LoginInput{
		Email:    "missing@acme.test",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAuthUsecaseForTest(userRepo)

	hash, err := crypto.HashPassword("correct-password")
	require.NoError(t, err)
	userRepo.On("GetByEmail", context.Background(), "user@acme.test").
		Return(&entities.User{ID: uuid.New(), Email: "user@acme.test", PasswordHash: hash}, nil).Once()

	_, err = uc.Login(context.Background(), &entities.LoginInput{
		Email:    "user@acme.test",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAuthUsecaseForTest(userRepo)

	hash, err := crypto.HashPassword("correct-password")
	require.NoError(t, err)
	user := &entities.User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "user@acme.test",
		PasswordHash: hash,
		Role:         entities.UserRoleMember,
	}
	userRepo.On("GetByEmail", context.Background(), "user@acme.test").Return(user, nil).Once()

	resp, err := uc.Login(context.Background(), &entities.LoginInput{
		Email:    "user@acme.test",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user, resp.User)

	// The token carries the tenant so the middleware can scope requests.
	claims, err := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour).ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.TenantID, claims.TenantID)
}

func TestAuthUsecase_GetUserByID_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newAuthUsecaseForTest(userRepo)

	id := uuid.New()
	userRepo.On("GetByID", context.Background(), id).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.GetUserByID(context.Background(), id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
