package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

// NewMemoryRepository creates an empty in-memory user repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepository) UpsertByEmail(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := now()
	if id, ok := r.byEmail[user.Email]; ok {
		stored := r.byID[id]
		stored.Name = user.Name
		stored.Image = user.Image
		stored.UpdatedAt = t
		*user = *stored
		return nil
	}

	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = t
	stored.UpdatedAt = t
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	*user = stored
	return nil
}

func (r *memoryRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	c := *user
	return &c, nil
}

func (r *memoryRepository) Migrate(context.Context) error {
	return nil
}
