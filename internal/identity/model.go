package identity

import "time"

// User represents a registered wallet owner.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	PasswordHash []byte
	CreatedAt    time.Time
}

// SignupInput captures the data required to register a user.
type SignupInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}
