package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	RecordSignIn(ctx context.Context, email, name, image string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}
