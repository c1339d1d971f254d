package user

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user has the requested id.
	ErrNotFound = errors.New("user: not found")

	// ErrEmailRequired is returned when the identity provider reports no email.
	ErrEmailRequired = errors.New("user: email is required")
)

// User is a person who has signed in through the identity provider at least once.
// @Description User information
// @Description with id, email, name, image, createdAt and updatedAt
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
