package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-record-service/internal/domain/user"
	apperrors "user-record-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different SQL engines to be used
// interchangeably behind the same four statements.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error                // Insert a new user
	List(ctx context.Context) ([]domain.User, error)                 // Retrieve all users, unordered
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) // Retrieve user by ID
	Delete(ctx context.Context, id uuid.UUID) error                  // Delete user by ID, idempotent
}

// Service implements Usecase on top of a Repository.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

var _ Usecase = (*Service)(nil)

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError("", err.Error())
	}

	var fields, messages []string
	for _, e := range validationErrors {
		fields = append(fields, strings.ToLower(e.Field()))
		switch e.Tag() {
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError(strings.Join(fields, ","), strings.Join(messages, ", "))
}

// parseID converts a textual identifier into a UUID.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("id", fmt.Sprintf("%q is not a valid UUID", raw))
	}
	return id, nil
}

func toDTO(u *domain.User) User {
	return User{ID: u.ID, Name: u.Name, Age: u.Age}
}

// CreateUser builds a user with a fresh id and persists it.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	s.log.Info("creating user", zap.String("name", in.Name), zap.Int("age", in.Age))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := domain.New(in.Name, uint8(in.Age))
	if err := s.repo.Create(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.String("id", u.ID.String()), zap.Error(err))
		return nil, err
	}

	out := toDTO(u)
	return &out, nil
}

// GetUser retrieves a single user by id.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	id, err := parseID(in.ID)
	if err != nil {
		s.log.Warn("get user validation failed", zap.String("id", in.ID), zap.String("reason", "invalid id"))
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			s.log.Info("user not found", zap.String("id", in.ID))
		} else {
			s.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	out := toDTO(u)
	return &out, nil
}

// ListUsers retrieves every user. Order is not defined.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	s.log.Info("listing users")

	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}
	return users, nil
}

// DeleteUser removes a user by id. Unknown ids succeed.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	s.log.Info("deleting user", zap.String("id", in.ID))

	id, err := parseID(in.ID)
	if err != nil {
		s.log.Warn("delete user validation failed", zap.String("id", in.ID), zap.String("reason", "invalid id"))
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return err
	}
	return nil
}
