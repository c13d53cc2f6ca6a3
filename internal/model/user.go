package model

import (
	"strings"
	"time"
)

// User represents an account record as stored in the `users` table.
// The json tags are omitted here because these structs are primarily
// used internally by the repository layer; handlers define separate
// response types with appropriate JSON tags so that the password hash
// and status never leak into API responses.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – login name presented in HTTP Basic credentials.
//  PasswordHash – bcrypt hashed password.
//  Status       – active or archived.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Status       Status    // users.status
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// ValidateUserInput checks the create-user payload before the password is
// hashed. Messages are returned in validation order and their wording is
// part of the API contract.
func ValidateUserInput(username, password string) []string {
	var errs []string
	if strings.TrimSpace(username) == "" {
		errs = append(errs, "Username can't be blank")
	}
	if strings.TrimSpace(password) == "" {
		errs = append(errs, "Password can't be blank")
	}
	return errs
}
