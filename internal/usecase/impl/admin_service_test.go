package impl

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/transport"
	mockImpl "storefront/internal/mocks/impl"
)

func TestAdminService_FindUserNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/find", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "User not found")
	})

	client, _ := newTestClient(t, mux)
	srv := NewAdminService(client, nil, testConfig(), testLogger)

	_, err := srv.FindUser(context.Background(), "ghost")
	require.Error(t, err)

	assert.Equal(t, `No user found for "ghost"`, srv.Error())
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.Kind(err))
}

func TestAdminService_FindUserEmptyQuery(t *testing.T) {
	client := mockImpl.NewMockTransport(t)
	srv := NewAdminService(client, nil, testConfig(), testLogger)

	_, err := srv.FindUser(context.Background(), " ")
	require.ErrorIs(t, err, domainerrors.ErrEmptyQuery)
}

func TestAdminService_SetRoleNormalizesAndRefreshes(t *testing.T) {
	var (
		mu        sync.Mutex
		roles     []entity.Role
		listPaths []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/setrole/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body entity.RoleRequest
		_ = decodeBody(r, &body)
		mu.Lock()
		roles = append(roles, body.Role)
		mu.Unlock()
		writeJSON(w, http.StatusOK, entity.User{ID: 2})
	})
	mux.HandleFunc("GET /users/users-with-addresses", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		listPaths = append(listPaths, r.URL.Path)
		mu.Unlock()
		writeJSON(w, http.StatusOK, pageOf([]entity.User{{ID: 2, Roles: entity.Roles{entity.RoleUser, entity.RoleSeller}}}, 0, 1))
	})

	client, _ := newTestClient(t, mux)
	srv := NewAdminService(client, nil, testConfig(), testLogger)

	_, err := srv.ListUsersWithAddresses(context.Background(), entity.PageParams{})
	require.NoError(t, err)

	require.NoError(t, srv.SetRole(context.Background(), 2, "ERole.ROLE_SELLER"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []entity.Role{entity.RoleSeller}, roles)
	assert.Len(t, listPaths, 2, "the last listing is repeated")
	require.Len(t, srv.Users(), 1)
	assert.True(t, srv.Users()[0].Roles.Has(entity.RoleSeller))
}

func TestAdminService_DeleteUserReturnsText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /users/Delete/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("User deleted successfully"))
	})
	mux.HandleFunc("GET /users/alluser", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, pageOf([]entity.User{}, 0, 0))
	})

	client, _ := newTestClient(t, mux)
	srv := NewAdminService(client, nil, testConfig(), testLogger)

	msg, err := srv.DeleteUser(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "User deleted successfully", msg)
	assert.Empty(t, srv.Users())
}

func TestAdminService_AvailableRoles(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	srv := NewAdminService(client, nil, testConfig(), testLogger)

	tests := []struct {
		name string
		user entity.User
		want entity.Roles
	}{
		{name: "no roles", user: entity.User{}, want: entity.Roles{entity.RoleUser, entity.RoleSeller, entity.RoleAdmin}},
		{name: "legacy spelling", user: entity.User{Roles: entity.Roles{"ERole.ROLE_USER"}}, want: entity.Roles{entity.RoleSeller, entity.RoleAdmin}},
		{name: "all held", user: entity.User{Roles: entity.AllRoles}, want: entity.Roles{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srv.AvailableRoles(tt.user))
		})
	}
}

func TestAdminService_SignOutDropsCachedUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	sessionClient, _ := newTestClient(t, mux)
	session := signedIn(t, sessionClient, mux, adminUser())

	client := mockImpl.NewMockTransport(t)
	client.EXPECT().
		Do(mock.Anything, mock.MatchedBy(func(req *transport.Request) bool {
			return req.Method == http.MethodGet && req.Path == pathUsersAddr
		}), mock.Anything).
		Run(func(_ context.Context, _ *transport.Request, out any) {
			*out.(*entity.Page[entity.User]) = pageOf([]entity.User{{ID: 2, Username: "buyer"}}, 0, 1)
		}).
		Return(nil).
		Once()

	srv := NewAdminService(client, session, testConfig(), testLogger)

	_, err := srv.ListUsersWithAddresses(context.Background(), entity.PageParams{})
	require.NoError(t, err)
	require.Len(t, srv.Users(), 1)

	require.NoError(t, session.Logout(context.Background()))

	assert.Empty(t, srv.Users())
	assert.Nil(t, srv.Page())
	assert.Empty(t, srv.Error())
}
