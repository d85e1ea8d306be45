package user

import "github.com/google/uuid"

// User represents a user record in the system.
type User struct {
	ID   uuid.UUID // ID is assigned once by New and never rewritten
	Name string    // Name is free text, not unique
	Age  uint8     // Age of the user
}

// New creates a User with a fresh random identifier.
func New(name string, age uint8) *User {
	return &User{
		ID:   uuid.New(),
		Name: name,
		Age:  age,
	}
}
