package user

import "github.com/google/uuid"

// CreateUserRequest represents the request payload for creating a new user.
// Age is an int so out-of-range input reaches validation instead of wrapping.
type CreateUserRequest struct {
	Name string
	Age  int `validate:"gte=0,lte=255"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// User represents a user DTO (Data Transfer Object) for adapter responses.
type User struct {
	ID   uuid.UUID
	Name string
	Age  uint8
}
