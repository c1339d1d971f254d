package user

import (
	"context"
	"strings"
)

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordSignIn(ctx context.Context, email, name, image string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	user := &User{
		Email: email,
		Name:  strings.TrimSpace(name),
		Image: strings.TrimSpace(image),
	}
	if err := s.repo.UpsertByEmail(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}
