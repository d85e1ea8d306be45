package grpc

import (
	"context"

	"user-record-service/internal/usecase/user"
	apperrors "user-record-service/pkg/errors"
)

// UserServiceServer implements the gRPC user service
type UserServiceServer struct {
	uc user.Usecase
}

var _ UserServiceHandler = (*UserServiceServer)(nil)

// NewUserServiceServer creates a new gRPC user service server
func NewUserServiceServer(uc user.Usecase) *UserServiceServer {
	return &UserServiceServer{uc: uc}
}

func toMessage(u *user.User) *User {
	return &User{
		ID:   u.ID.String(),
		Name: u.Name,
		Age:  uint32(u.Age),
	}
}

// CreateUser handles gRPC CreateUser request
func (s *UserServiceServer) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	u, err := s.uc.CreateUser(ctx, user.CreateUserRequest{Name: req.Name, Age: int(req.Age)})
	if err != nil {
		return nil, apperrors.ToGRPC(err)
	}
	return toMessage(u), nil
}

// GetUser handles gRPC GetUser request
func (s *UserServiceServer) GetUser(ctx context.Context, req *GetUserRequest) (*User, error) {
	u, err := s.uc.GetUser(ctx, user.GetUserRequest{ID: req.ID})
	if err != nil {
		return nil, apperrors.ToGRPC(err)
	}
	return toMessage(u), nil
}

// ListUsers handles gRPC ListUsers request
func (s *UserServiceServer) ListUsers(ctx context.Context, _ *ListUsersRequest) (*ListUsersResponse, error) {
	users, err := s.uc.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.ToGRPC(err)
	}

	resp := &ListUsersResponse{Users: make([]User, len(users))}
	for i := range users {
		resp.Users[i] = *toMessage(&users[i])
	}
	return resp, nil
}

// DeleteUser handles gRPC DeleteUser request
func (s *UserServiceServer) DeleteUser(ctx context.Context, req *DeleteUserRequest) (*DeleteUserResponse, error) {
	if err := s.uc.DeleteUser(ctx, user.DeleteUserRequest{ID: req.ID}); err != nil {
		return nil, apperrors.ToGRPC(err)
	}
	return &DeleteUserResponse{}, nil
}
