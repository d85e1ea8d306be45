package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-record-service/internal/domain/user"
	apperrors "user-record-service/pkg/errors"
)

// UserStore implements the Repository interface over a GORM connection pool.
// Every method issues exactly one autocommit statement; nothing is cached.
type UserStore struct {
	db  *gorm.DB    // GORM database connection pool
	log *zap.Logger // Structured logger for database operations
}

// NewUserStore creates a new instance of UserStore.
func NewUserStore(db *gorm.DB, log *zap.Logger) *UserStore {
	return &UserStore{db: db, log: log}
}

// UserSchema represents the database schema for the user table.
type UserSchema struct {
	ID   string `gorm:"primaryKey;type:varchar(36)"` // UUID in canonical text form
	Name string `gorm:"type:text;not null"`          // User's name
	Age  uint8  `gorm:"type:smallint;not null"`      // User's age
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "user"
}

func toSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:   u.ID.String(),
		Name: u.Name,
		Age:  u.Age,
	}
}

func (m UserSchema) toDomain() (user.User, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return user.User{}, fmt.Errorf("stored id %q is not a UUID: %w", m.ID, err)
	}
	return user.User{ID: id, Name: m.Name, Age: m.Age}, nil
}

// Create inserts a new user row. A duplicate id surfaces as a StorageError.
func (r *UserStore) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return apperrors.NewValidationError("user", "user cannot be nil")
	}

	model := toSchema(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("user id already exists", zap.String("id", model.ID))
		} else {
			r.log.Error("failed to create user in db", zap.Error(err), zap.String("id", model.ID))
		}
		return apperrors.NewStorageError("create user", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return nil
}

// List returns every user row. Row order is whatever the engine yields.
func (r *UserStore) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, apperrors.NewStorageError("list users", err)
	}

	users := make([]user.User, 0, len(models))
	for _, model := range models {
		u, err := model.toDomain()
		if err != nil {
			r.log.Error("corrupt user row", zap.Error(err))
			return nil, apperrors.NewStorageError("list users", err)
		}
		users = append(users, u)
	}

	return users, nil
}

// GetByID retrieves exactly one user by id.
func (r *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).Find(&models).Error; err != nil {
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id.String()))
		return nil, apperrors.NewStorageError("get user", err)
	}

	switch len(models) {
	case 0:
		r.log.Warn("user not found", zap.String("id", id.String()))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
	case 1:
	default:
		r.log.Error("ambiguous user lookup", zap.String("id", id.String()), zap.Int("rows", len(models)))
		return nil, apperrors.NewStorageError("get user", fmt.Errorf("%d rows match id %s", len(models), id))
	}

	u, err := models[0].toDomain()
	if err != nil {
		r.log.Error("corrupt user row", zap.Error(err))
		return nil, apperrors.NewStorageError("get user", err)
	}
	return &u, nil
}

// Delete removes the user row with the given id. Deleting an id that does not
// exist is not an error.
func (r *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&UserSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.String("id", id.String()))
		return apperrors.NewStorageError("delete user", res.Error)
	}

	r.log.Info("user deleted in db", zap.String("id", id.String()), zap.Int64("rows_affected", res.RowsAffected))
	return nil
}

// Ping verifies the pool can reach the database.
func (r *UserStore) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return apperrors.NewStorageError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("ping", err)
	}
	return nil
}
