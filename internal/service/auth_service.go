package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"recipebox/internal/auth"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// timingPassword is hashed once so logins for unknown emails still pay for a bcrypt comparison.
const timingPassword = "recipebox-timing-equalizer"

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	userRepo  repository.UserRepository
	hasher    auth.PasswordHasher
	tokens    auth.TokenIssuer
	logger    *slog.Logger
	dummyHash string
	now       func() time.Time
}

// NewAuthService creates a new authentication service. It fails when the hasher
// cannot produce the dummy digest used for unknown-email logins.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenIssuer, logger *slog.Logger) (AuthService, error) {
	dummyHash, err := hasher.Hash(timingPassword)
	if err != nil {
		return nil, fmt.Errorf("hash timing password: %w", err)
	}
	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)), slog.String("email", user.Email))
	return user, nil
}

// Login verifies credentials and issues a bearer token keyed to the user's email.
// Unknown email and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.WarnContext(ctx, "login rejected", slog.String("email", email))
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login rejected", slog.String("email", email))
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}
