package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-record-service/internal/domain/user"
	apperrors "user-record-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestUsecase(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	return New(mockRepo, logger), mockRepo
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	var stored *domain.User
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Ann" && u.Age == 30 && u.ID != uuid.Nil
	})).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.User)
	}).Return(nil)

	resp, err := uc.CreateUser(ctx, CreateUserRequest{Name: "Ann", Age: 30})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, stored.ID, resp.ID)
	assert.Equal(t, "Ann", resp.Name)
	assert.Equal(t, uint8(30), resp.Age)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_BoundaryAges(t *testing.T) {
	for _, age := range []int{0, 255} {
		uc, mockRepo := setupTestUsecase(t)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := uc.CreateUser(context.Background(), CreateUserRequest{Name: "Edge", Age: age})

		require.NoError(t, err)
		assert.Equal(t, uint8(age), resp.Age)
	}
}

func TestCreateUser_ValidationError_AgeOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		age     int
		message string
	}{
		{name: "negative", age: -1, message: "Age must be at least 0"},
		{name: "too large", age: 256, message: "Age must be at most 255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			resp, err := uc.CreateUser(context.Background(), CreateUserRequest{Name: "Ann", Age: tt.age})

			assert.Nil(t, resp)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateUser_StorageError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	storageErr := apperrors.NewStorageError("create user", errors.New("UNIQUE constraint failed"))
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(storageErr)

	resp, err := uc.CreateUser(context.Background(), CreateUserRequest{Name: "Ann", Age: 30})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, storageErr)
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	u := domain.New("Ann", 30)
	mockRepo.On("GetByID", ctx, u.ID).Return(u, nil)

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: u.ID.String()})

	require.NoError(t, err)
	assert.Equal(t, User{ID: u.ID, Name: "Ann", Age: 30}, *resp)
	mockRepo.AssertExpectations(t)
}

func TestGetUser_InvalidID(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	resp, err := uc.GetUser(context.Background(), GetUserRequest{ID: "not-a-uuid"})

	assert.Nil(t, resp)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, apperrors.NewNotFoundError("user", "user not found"))

	resp, err := uc.GetUser(context.Background(), GetUserRequest{ID: id.String()})

	assert.Nil(t, resp)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	a, b := domain.New("Ann", 30), domain.New("Bob", 41)
	mockRepo.On("List", mock.Anything).Return([]domain.User{*a, *b}, nil)

	users, err := uc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []User{
		{ID: a.ID, Name: "Ann", Age: 30},
		{ID: b.ID, Name: "Bob", Age: 41},
	}, users)
}

func TestListUsers_Empty(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	mockRepo.On("List", mock.Anything).Return([]domain.User{}, nil)

	users, err := uc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListUsers_StorageError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	mockRepo.On("List", mock.Anything).Return(nil, apperrors.NewStorageError("list users", errors.New("db down")))

	users, err := uc.ListUsers(context.Background())

	assert.Nil(t, users)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	id := uuid.New()
	mockRepo.On("Delete", mock.Anything, id).Return(nil).Twice()

	require.NoError(t, uc.DeleteUser(context.Background(), DeleteUserRequest{ID: id.String()}))
	require.NoError(t, uc.DeleteUser(context.Background(), DeleteUserRequest{ID: id.String()}))
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	err := uc.DeleteUser(context.Background(), DeleteUserRequest{ID: "123"})

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_StorageError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	id := uuid.New()
	mockRepo.On("Delete", mock.Anything, id).Return(apperrors.NewStorageError("delete user", errors.New("db down")))

	err := uc.DeleteUser(context.Background(), DeleteUserRequest{ID: id.String()})

	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}
