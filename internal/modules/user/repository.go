package user

import "context"

// Repository defines the interface for user data storage.
type Repository interface {
	// UpsertByEmail inserts u, or refreshes name and image of the user with the
	// same email. It fills in ID and timestamps from the stored record.
	UpsertByEmail(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	Migrate(ctx context.Context) error
}
