package grpc

// CreateUserRequest is the CreateUser request message.
type CreateUserRequest struct {
	Name string `json:"name"`
	Age  int32  `json:"age"`
}

// GetUserRequest is the GetUser request message.
type GetUserRequest struct {
	ID string `json:"id"`
}

// ListUsersRequest is the ListUsers request message.
type ListUsersRequest struct{}

// ListUsersResponse carries every stored user, unordered.
type ListUsersResponse struct {
	Users []User `json:"users"`
}

// DeleteUserRequest is the DeleteUser request message.
type DeleteUserRequest struct {
	ID string `json:"id"`
}

// DeleteUserResponse is empty; deleting an unknown id succeeds.
type DeleteUserResponse struct{}

// User is the wire form of a user record.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  uint32 `json:"age"`
}
