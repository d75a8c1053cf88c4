package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/models"
	"github.com/sbilibin2017/gw-inventory/internal/repositories"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash string) (int64, error)
}

// AuthService handles registration and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
	}
}

// bcrypt rejects passwords longer than this many bytes.
const maxPasswordBytes = 72

type registration struct {
	Username        string `label:"Username" validate:"required,max=100"`
	Email           string `label:"Email" validate:"required,max=100"`
	Password        string `label:"Password" validate:"required"`
	ConfirmPassword string `label:"Confirm password" validate:"required"`
}

// Register creates a user with a bcrypt-hashed password.
func (svc *AuthService) Register(ctx context.Context, username, email, password, confirmPassword string) error {
	if err := validateStruct(registration{username, email, password, confirmPassword}); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return newValidationError("Password must be at most 72 bytes")
	}
	if password != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Infow("user already exists", "username", username, "email", email)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return newValidationError("Password must be at most 72 bytes")
	}
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if _, err := svc.writer.Save(ctx, username, email, string(hashedPassword)); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	return nil
}

// Login returns the user whose username or email equals identifier and whose
// password matches. Every mismatch yields ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, identifier, password string) (*models.UserDB, error) {
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &identifier, &identifier)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Infow("user does not exist", "identifier", identifier)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "identifier", identifier)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
