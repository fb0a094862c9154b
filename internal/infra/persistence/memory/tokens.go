package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

func (s *Store) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *token
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	s.tokens[t.ID] = &t

	return nil
}

func (s *Store) FindRefreshTokenByID(_ context.Context, id string) (*entity.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[id]
	if !ok || t.Expired(s.now()) {
		return nil, errors.WithStack(repository.ErrRefreshTokenNotFound)
	}

	out := *t

	return &out, nil
}

func (s *Store) DeleteRefreshToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, id)

	return nil
}

func (s *Store) DeleteRefreshTokensByUserID(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, id)
		}
	}

	return nil
}

func (s *Store) CountActiveSessionsByUserID(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	n := 0
	for _, t := range s.tokens {
		if t.UserID == userID && !t.Expired(now) {
			n++
		}
	}

	return n, nil
}

func (s *Store) deleteExpiredTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, id)
			n++
		}
	}

	return n
}
