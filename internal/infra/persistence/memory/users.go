package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// CreateUser persists a new user. An unverified credential gets a fresh verification token.
func (s *Store) CreateUser(_ context.Context, user *entity.User, cred *entity.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.users {
		if strings.EqualFold(rec.user.Email, user.Email) || rec.user.Username == user.Username {
			return errors.WithStack(repository.ErrUserExists)
		}
	}

	s.ids.user++
	user.ID = s.ids.user
	cred.UserID = user.ID
	cred.CreatedAt = s.now()
	if !cred.Verified && cred.VerifyToken == "" {
		cred.VerifyToken = uuid.NewString()
	}

	s.users[user.ID] = &userRecord{user: cloneUser(user, true), cred: *cred}

	return nil
}

func (s *Store) FindUserByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrUserNotFound)
	}

	u := cloneUser(&rec.user, true)

	return &u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.findUser(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) FindUserByQuery(_ context.Context, query string) (*entity.User, error) {
	return s.findUser(func(u *entity.User) bool {
		return u.Username == query || strings.EqualFold(u.Email, query)
	})
}

func (s *Store) findUser(match func(*entity.User) bool) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.users {
		if match(&rec.user) {
			u := cloneUser(&rec.user, true)

			return &u, nil
		}
	}

	return nil, errors.WithStack(repository.ErrUserNotFound)
}

func (s *Store) FindCredential(_ context.Context, userID int64) (*entity.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[userID]
	if !ok {
		return nil, errors.WithStack(repository.ErrUserNotFound)
	}

	cred := rec.cred

	return &cred, nil
}

func (s *Store) VerifyEmail(_ context.Context, token string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return nil, errors.WithStack(repository.ErrVerifyTokenNotFound)
	}

	for _, rec := range s.users {
		if rec.cred.VerifyToken != token {
			continue
		}

		rec.cred.Verified = true
		rec.cred.VerifyToken = ""
		u := cloneUser(&rec.user, true)

		return &u, nil
	}

	return nil, errors.WithStack(repository.ErrVerifyTokenNotFound)
}

// VerificationToken returns the pending verification token for email, as the sandbox's
// stand-in for a sent verification mail.
func (s *Store) VerificationToken(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.users {
		if strings.EqualFold(rec.user.Email, email) && rec.cred.VerifyToken != "" {
			return rec.cred.VerifyToken, true
		}
	}

	return "", false
}

func (s *Store) UpdateUser(_ context.Context, id int64, req entity.UpdateUserRequest) (*entity.User, error) {
	return s.mutateUser(id, func(rec *userRecord) error {
		for otherID, other := range s.users {
			if otherID == id {
				continue
			}
			if req.Username != nil && other.user.Username == *req.Username {
				return errors.WithStack(repository.ErrUserExists)
			}
			if req.Email != nil && strings.EqualFold(other.user.Email, *req.Email) {
				return errors.WithStack(repository.ErrUserExists)
			}
		}

		if req.Username != nil {
			rec.user.Username = *req.Username
		}
		if req.Email != nil {
			rec.user.Email = *req.Email
		}
		if req.Age != nil {
			age := *req.Age
			rec.user.Age = &age
		}

		return nil
	})
}

func (s *Store) SetImageURL(_ context.Context, id int64, url string) error {
	_, err := s.mutateUser(id, func(rec *userRecord) error {
		rec.user.ImageURL = &url

		return nil
	})

	return err
}

func (s *Store) AddRole(_ context.Context, id int64, role entity.Role) (*entity.User, error) {
	role = role.Normalize()

	return s.mutateUser(id, func(rec *userRecord) error {
		if !rec.user.Roles.Has(role) {
			rec.user.Roles = append(rec.user.Roles, role)
		}

		return nil
	})
}

func (s *Store) RemoveRole(_ context.Context, id int64, role entity.Role) (*entity.User, error) {
	return s.mutateUser(id, func(rec *userRecord) error {
		rec.user.Roles = slices.DeleteFunc(rec.user.Roles, func(r entity.Role) bool { return r.Matches(role) })

		return nil
	})
}

func (s *Store) mutateUser(id int64, fn func(*userRecord) error) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, errors.WithStack(repository.ErrUserNotFound)
	}
	if err := fn(rec); err != nil {
		return nil, err
	}

	u := cloneUser(&rec.user, true)

	return &u, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errors.WithStack(repository.ErrUserNotFound)
	}

	delete(s.users, id)
	delete(s.carts, id)
	for tokenID, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, tokenID)
		}
	}

	return nil
}

func (s *Store) ListUsers(_ context.Context, page repository.PageRequest, withAddresses bool) (*entity.Page[entity.User], error) {
	s.mu.RLock()
	users := make([]entity.User, 0, len(s.users))
	for _, rec := range s.users {
		users = append(users, cloneUser(&rec.user, withAddresses))
	}
	s.mu.RUnlock()

	return paginate(users, page, userSorts), nil
}

func (s *Store) CreateAddress(_ context.Context, userID int64, req entity.AddressRequest) (*entity.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return nil, errors.WithStack(repository.ErrUserNotFound)
	}

	s.ids.address++
	addr := entity.Address{
		ID:         s.ids.address,
		Street:     req.Street,
		Wilaya:     req.Wilaya,
		Commune:    req.Commune,
		CodePostal: req.CodePostal,
	}
	rec.user.Addresses = append(rec.user.Addresses, addr)

	return &addr, nil
}

func (s *Store) FindAddress(_ context.Context, userID, addressID int64) (*entity.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[userID]
	if !ok {
		return nil, errors.WithStack(repository.ErrUserNotFound)
	}

	idx := slices.IndexFunc(rec.user.Addresses, func(a entity.Address) bool { return a.ID == addressID })
	if idx < 0 {
		return nil, errors.WithStack(repository.ErrAddressNotFound)
	}

	addr := rec.user.Addresses[idx]

	return &addr, nil
}

func (s *Store) DeleteAddress(_ context.Context, userID, addressID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return errors.WithStack(repository.ErrUserNotFound)
	}

	before := len(rec.user.Addresses)
	rec.user.Addresses = slices.DeleteFunc(rec.user.Addresses, func(a entity.Address) bool { return a.ID == addressID })
	if len(rec.user.Addresses) == before {
		return errors.WithStack(repository.ErrAddressNotFound)
	}

	return nil
}
