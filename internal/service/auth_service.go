package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"induohouse/internal/auth"
	"induohouse/internal/errors"
	"induohouse/internal/model"
	"induohouse/internal/repository"
)

const bcryptCost = 10

// TokenPair bundles the credentials issued at registration and login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, login and current-user lookup.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error)
	CurrentUser(ctx context.Context, email string) (*model.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with a hashed password and issues tokens.
// The uniqueness check runs before any write; a duplicate email mutates
// nothing. Two registrations racing past the check collide on the unique
// email index, which also surfaces as ErrEmailTaken. Token issue happens
// inside the transaction so a failure there rolls the user row back.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, *TokenPair, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email existence: %w", err)
	}
	if exists {
		return nil, nil, errors.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:           email,
		PasswordHash:    string(hashedPassword),
		FirstName:       firstName,
		LastName:        lastName,
		Role:            model.RoleUser,
		IsEmailVerified: true,
	}

	var tokens *TokenPair
	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		var err error
		tokens, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login verifies credentials and issues tokens. A missing user and a wrong
// password collapse to the same error so callers cannot probe for emails.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}

	// Defensive reload: should not fail after a successful credential check.
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, errors.ErrUserNotFound
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// CurrentUser re-reads the full user record behind the authenticated email.
// The email is an explicit parameter, extracted once by the session layer.
func (s *authService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, errors.ErrUnauthorized
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Refresh validates a refresh token and returns a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", errors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout drops the refresh token. Access tokens are not tracked server-side;
// the handler clears the cookie and the token ages out on its own.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
