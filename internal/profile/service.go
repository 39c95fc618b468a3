package profile

import (
	"context"
	"errors"
	"strings"
)

type Service interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID, email string, params UpdateParams) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Get returns the stored profile, or an empty one for users who have not
// saved anything yet.
func (s *service) Get(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return &Profile{ID: userID}, nil
	}
	return p, err
}

func (s *service) Update(ctx context.Context, userID, email string, params UpdateParams) (*Profile, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	return s.repo.Upsert(ctx, &Profile{
		ID:         userID,
		Email:      email,
		FullName:   trimmed(params.FullName),
		Phone:      trimmed(params.Phone),
		Address:    trimmed(params.Address),
		City:       trimmed(params.City),
		State:      trimmed(params.State),
		PostalCode: trimmed(params.PostalCode),
		Country:    trimmed(params.Country),
	})
}

// trimmed maps blank input to nil so the stored value is kept.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
