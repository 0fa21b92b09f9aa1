package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	logger *zap.Logger
	repo   *repository.Repository
	tokens *utils.TokenManager
	hasher *utils.PasswordHasher
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, tokens *utils.TokenManager, hasher *utils.PasswordHasher) Auth {
	return &authService{
		logger: logger,
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, input dto.SignupRequest) (*dto.AuthResponse, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := normalizeEmail(input.Email)
	if firstName == "" || lastName == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.repo.User.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Sugar().Errorf("failed to find user by email: %s", err.Error())
		return nil, ErrInternal
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.User.Create(ctx, model.User{
		FirstName: firstName,
		LastName:  lastName,
		Name:      firstName + " " + lastName,
		Email:     email,
		Password:  hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		s.logger.Sugar().Errorf("failed to create user: %s", err.Error())
		return nil, ErrInternal
	}

	return s.respond("User created successfully", user)
}

func (s *authService) Signin(ctx context.Context, input dto.SigninRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to find user by email: %s", err.Error())
		return nil, ErrInternal
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(ctx, user.Password, input.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to compare password of user(%s): %s", user.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return s.respond("User signed in successfully", user)
}

func (s *authService) respond(message string, user *model.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Sugar().Errorf("failed to issue token for user(%s): %s", user.ID.String(), err.Error())
		return nil, ErrInternal
	}

	user.Password = ""

	return &dto.AuthResponse{
		Message: message,
		Token:   token,
		User:    user,
	}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	user.Password = ""

	return user, nil
}
