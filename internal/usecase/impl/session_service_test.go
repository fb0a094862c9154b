package impl

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/validation"
)

func adminUser() entity.User {
	return entity.User{
		ID:       1,
		Username: "admin",
		Email:    "admin@example.com",
		Roles:    entity.Roles{"ERole.ROLE_ADMIN", entity.RoleUser},
		Addresses: []entity.Address{
			{ID: 7, Street: "1 rue Didouche", Wilaya: "Alger", Commune: "Sidi M'Hamed", CodePostal: "16000"},
		},
	}
}

func TestSessionService_LoginLoadsUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "a", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("accessToken"); err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")

			return
		}
		writeJSON(w, http.StatusOK, adminUser())
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	var statuses []entity.SessionStatus
	srv.Subscribe(func(s entity.Session) {
		if s.Status == entity.SessionUnknown {
			return
		}
		if len(statuses) == 0 || statuses[len(statuses)-1] != s.Status {
			statuses = append(statuses, s.Status)
		}
	})

	err := srv.Login(context.Background(), entity.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)

	assert.True(t, srv.Authenticated())
	require.NotNil(t, srv.User())
	assert.Equal(t, "admin", srv.User().Username)
	assert.Equal(t, []entity.SessionStatus{entity.SessionAuthenticating, entity.SessionAuthenticated}, statuses)
	assert.False(t, srv.Snapshot().Loading)
	assert.Empty(t, srv.Snapshot().LastError)
}

func TestSessionService_LoginFailsWhenUserFetchFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusInternalServerError, "Profile service down")
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	err := srv.Login(context.Background(), entity.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.Error(t, err)

	snap := srv.Snapshot()
	assert.Equal(t, entity.SessionUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Equal(t, "Profile service down", snap.LastError)
	assert.False(t, snap.Loading)
}

func TestSessionService_LoginRejectedCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
	})
	refreshCalls := atomic.Int32{}
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	client, nav := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	err := srv.Login(context.Background(), entity.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	require.Error(t, err)

	assert.Equal(t, entity.SessionUnauthenticated, srv.Status())
	assert.Equal(t, "Bad credentials", srv.Snapshot().LastError)
	assert.Zero(t, refreshCalls.Load(), "login never triggers a refresh")
	nav.AssertNotCalled(t, "HardNavigate", mock.Anything, mock.Anything)
}

func TestSessionService_LoginValidationShortCircuits(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	err := srv.Login(context.Background(), entity.LoginRequest{})
	require.Error(t, err)

	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	snap := srv.Snapshot()
	assert.Zero(t, hits.Load())
	assert.False(t, snap.Loading)
	assert.Equal(t, entity.SessionUnknown, snap.Status)
	assert.Equal(t, "email is required. password is required", snap.LastError)
}

func TestSessionService_SignupValidation(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	srv := NewSessionService(client, validation.New(), testLogger)

	err := srv.Signup(context.Background(), entity.SignupRequest{Password: "secret1"})
	require.Error(t, err)

	assert.Equal(t, "username is required. email is required", srv.Snapshot().LastError)
}

func TestSessionService_SignupLeavesFieldRulesToBackend(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"username": "username must be at least 3 characters",
			"password": "password must be at least 6 characters",
		})
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	err := srv.Signup(context.Background(), entity.SignupRequest{
		Username: "ab",
		Password: "12345",
		Email:    "ab@example.com",
	})
	require.Error(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, domainerrors.KindBackendValidation, domainerrors.Kind(err))
	assert.Equal(t, "password must be at least 6 characters. username must be at least 3 characters", srv.Snapshot().LastError)
}

func TestSessionService_ProbeIsSilent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "Refresh token expired")
	})

	client, nav := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)
	require.Equal(t, entity.SessionUnknown, srv.Status())

	srv.Probe(context.Background())

	snap := srv.Snapshot()
	assert.Equal(t, entity.SessionUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.LastError)
	nav.AssertNotCalled(t, "HardNavigate", mock.Anything, mock.Anything)
}

func TestSessionService_ProbeRestoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, adminUser())
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	srv.Probe(context.Background())

	assert.True(t, srv.Authenticated())
	assert.Equal(t, int64(1), srv.User().ID)
}

func TestSessionService_HasRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, adminUser())
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)

	assert.False(t, srv.HasRole(entity.RoleUser), "no user, no roles")

	srv.Probe(context.Background())

	tests := []struct {
		name  string
		roles []entity.Role
		want  bool
	}{
		{name: "bare name matches qualified role", roles: []entity.Role{entity.RoleAdmin}, want: true},
		{name: "qualified name matches", roles: []entity.Role{"ERole.ROLE_ADMIN"}, want: true},
		{name: "any of several", roles: []entity.Role{entity.RoleSeller, entity.RoleUser}, want: true},
		{name: "none held", roles: []entity.Role{entity.RoleSeller}, want: false},
		{name: "empty list", roles: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srv.HasAnyRole(tt.roles...))
		})
	}
}

func TestSessionService_LogoutClearsOnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, adminUser())
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusInternalServerError, "boom")
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)
	srv.Probe(context.Background())
	require.True(t, srv.Authenticated())

	err := srv.Logout(context.Background())
	require.Error(t, err)

	assert.Equal(t, entity.SessionUnauthenticated, srv.Status())
	assert.Nil(t, srv.User())
}

func TestSessionService_FetchCurrentUserFailureClears(t *testing.T) {
	var fail atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			writeMessage(w, http.StatusInternalServerError, "boom")

			return
		}
		writeJSON(w, http.StatusOK, adminUser())
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)
	srv.Probe(context.Background())
	require.True(t, srv.Authenticated())

	fail.Store(true)
	err := srv.FetchCurrentUser(context.Background())
	require.Error(t, err)

	assert.Equal(t, entity.SessionUnauthenticated, srv.Status())
	assert.Empty(t, srv.Snapshot().LastError)
}

func TestSessionService_AddAddressRefetchesUser(t *testing.T) {
	var meCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		u := adminUser()
		if meCalls.Add(1) > 1 {
			u.Addresses = append(u.Addresses, entity.Address{ID: 8, Street: "2 Elm St"})
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("POST /users/me/address", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, entity.Address{ID: 8, Street: "2 Elm St"})
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)
	srv.Probe(context.Background())

	addr, err := srv.AddAddress(context.Background(), entity.AddressRequest{
		Street: "2 Elm St", Wilaya: "Oran", Commune: "Bir El Djir", CodePostal: "31000",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8), addr.ID)
	assert.Len(t, srv.User().Addresses, 2)
	assert.Equal(t, int32(2), meCalls.Load())
}

func TestSessionService_UploadProfileImageWithoutUser(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	srv := NewSessionService(client, validation.New(), testLogger)

	_, err := srv.UploadProfileImage(context.Background(), entity.Upload{FileName: "me.png", Content: []byte("png")})
	require.Error(t, err)

	assert.Equal(t, "User not found", srv.Snapshot().LastError)
}

func TestSessionService_InvalidateClears(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, adminUser())
	})

	client, _ := newTestClient(t, mux)
	srv := NewSessionService(client, validation.New(), testLogger)
	srv.Probe(context.Background())

	srv.Invalidate()

	assert.False(t, srv.Authenticated())
	assert.Nil(t, srv.User())
}
