package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"induohouse/internal/auth"
	"induohouse/internal/errors"
	"induohouse/internal/model"
	"induohouse/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// WithTransaction runs the callback against the mock itself.
func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UserRepository) error) error {
	m.Called(ctx)
	return fn(ctx, m)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		firstName     string
		lastName      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "test@example.com",
			password:  "password123",
			firstName: "Test",
			lastName:  "User",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
				mRepo.On("WithTransaction", mock.Anything).Return()
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "test@example.com", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already registered",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("ExistsByEmail", mock.Anything, "existing@example.com").Return(true, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			user, tokens, err := service.Register(context.Background(), tt.email, tt.password, tt.firstName, tt.lastName)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.firstName, user.FirstName)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_NoWriteOnDuplicate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokenStore := new(MockTokenStore)
	mockRepo.On("ExistsByEmail", mock.Anything, "dup@example.com").Return(true, nil)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore)
	_, _, err := service.Register(context.Background(), "dup@example.com", "password123", "", "")

	assert.Equal(t, errors.ErrEmailTaken, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Two registrations racing past the existence check collide on the unique
// email index; the second must still see a conflict, not a generic failure.
func TestAuthService_Register_DuplicateKeyRace(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("ExistsByEmail", mock.Anything, "race@example.com").Return(false, nil)
	mockRepo.On("WithTransaction", mock.Anything).Return()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
	user, tokens, err := service.Register(context.Background(), "race@example.com", "password123", "", "")

	assert.Equal(t, errors.ErrEmailTaken, err)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

// A token-store failure inside the registration transaction must propagate
// out of the callback so the user row is rolled back with it.
func TestAuthService_Register_TokenStoreFailureAbortsTransaction(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokenStore := new(MockTokenStore)
	mockRepo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
	mockRepo.On("WithTransaction", mock.Anything).Return()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "test@example.com", mock.Anything).Return(assert.AnError)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore)
	user, tokens, err := service.Register(context.Background(), "test@example.com", "password123", "", "")

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Nil(t, tokens)
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           7,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "test@example.com", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "not-the-password",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           7,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			user, tokens, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Run("empty email is unauthenticated", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret"), new(MockTokenStore))
		_, err := service.CurrentUser(context.Background(), "")
		assert.Equal(t, errors.ErrUnauthorized, err)
	})

	t.Run("profile is reloaded from the store", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
			ID:        7,
			Email:     "test@example.com",
			FirstName: "Test",
		}, nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		user, err := service.CurrentUser(context.Background(), "test@example.com")

		assert.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("deleted user yields not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "gone@example.com").Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		_, err := service.CurrentUser(context.Background(), "gone@example.com")

		assert.Equal(t, errors.ErrUserNotFound, err)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "test@example.com")
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "test@example.com", nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		accessToken, err := service.Refresh(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, "test@example.com", claims.Email)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := service.Refresh(context.Background(), "not-a-token")
		assert.Equal(t, errors.ErrInvalidRefreshToken, err)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "test@example.com")
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		_, err = service.Refresh(context.Background(), refreshToken)
		assert.Equal(t, errors.ErrInvalidRefreshToken, err)
	})
}
