package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studyboard/internal/logging"
	"studyboard/internal/model"
	"studyboard/internal/pkg/credential"
	"studyboard/internal/pkg/jwtutil"
	"studyboard/internal/pkg/validation"
	"studyboard/internal/repository"
)

type AuthService struct {
	userRepo *repository.UserRepository
	hasher   *credential.Hasher
	tokens   *jwtutil.Service
	audit    *Auditor
	logger   *slog.Logger
	now      func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type UpdateProfileInput struct {
	// Email is left unchanged when nil.
	Email *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(userRepo *repository.UserRepository, hasher *credential.Hasher, tokens *jwtutil.Service, audit *Auditor, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := validation.Username(username); err != nil {
		return nil, invalidInput(err)
	}
	if err := validation.Email(email); err != nil {
		return nil, invalidInput(err)
	}
	if err := validation.Password(input.Password); err != nil {
		return nil, invalidInput(err)
	}

	existingByName, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		logging.SecurityEvent(s.logger, "registration_duplicate", "username", username)
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		logging.SecurityEvent(s.logger, "registration_duplicate", "username", username)
		return nil, ErrEmailExists
	}

	user := &model.User{
		Username: username,
		Email:    email,
		IsActive: true,
	}
	if err := s.hashPassword(user, input.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.audit.Record(ctx, model.AuditUserRegistered, user, "user", user.ID, "")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, newError(ErrInvalidInput, "username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(user, input.Password) {
		logging.SecurityEvent(s.logger, "login_failed", "username", username)
		var targetID uint
		if user != nil {
			targetID = user.ID
		}
		s.audit.Record(ctx, model.AuditLoginFailed, nil, "user", targetID, username)
		return nil, ErrInvalidCredential
	}
	if !user.IsActive {
		logging.SecurityEvent(s.logger, "login_inactive_account", "user_id", user.ID)
		s.audit.Record(ctx, model.AuditLoginFailed, user, "user", user.ID, "inactive")
		return nil, ErrAccountInactive
	}

	now := s.now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	s.audit.Record(ctx, model.AuditLoginSucceeded, user, "user", user.ID, "")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, input UpdateProfileInput) (*model.User, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}
	if input.Email == nil {
		return user, nil
	}

	email := strings.ToLower(strings.TrimSpace(*input.Email))
	if err := validation.Email(email); err != nil {
		return nil, invalidInput(err)
	}
	if email == user.Email {
		return user, nil
	}
	if err := s.userRepo.UpdateEmail(ctx, user.ID, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	user.Email = email
	s.logger.Info("user updated email", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, input ChangePasswordInput) error {
	if user == nil {
		return ErrAuthRequired
	}
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return newError(ErrInvalidInput, "current password and new password are required")
	}
	if !s.hasher.Verify(user, input.CurrentPassword) {
		logging.SecurityEvent(s.logger, "password_change_failed", "user_id", user.ID)
		return ErrWrongPassword
	}
	if err := validation.Password(input.NewPassword); err != nil {
		return invalidInput(err)
	}

	if err := s.hashPassword(user, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, user.PasswordHash); err != nil {
		return err
	}
	s.logger.Info("user changed password", "user_id", user.ID)
	s.audit.Record(ctx, model.AuditPasswordChanged, user, "user", user.ID, "")
	return nil
}

// hashPassword reports input the hasher refuses as invalid input.
func (s *AuthService) hashPassword(user *model.User, plaintext string) error {
	err := s.hasher.Set(user, plaintext)
	if errors.Is(err, credential.ErrEmptyPassword) || errors.Is(err, credential.ErrPasswordTooLong) {
		return invalidInput(err)
	}
	return err
}

func (s *AuthService) issue(user *model.User) (string, error) {
	return s.tokens.Issue(jwtutil.Identity{UserID: user.ID, Username: user.Username}, 0)
}
