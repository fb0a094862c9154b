package navigation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	mockNavigation "storefront/internal/mocks/navigation"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// sessionAs stubs a session for route guards. Any guard may or may not consult it.
func sessionAs(t *testing.T, authenticated bool, roles ...entity.Role) *mockNavigation.MockSessionReader {
	t.Helper()

	held := entity.Roles(roles)
	session := mockNavigation.NewMockSessionReader(t)
	session.EXPECT().Authenticated().Return(authenticated).Maybe()
	session.EXPECT().HasAnyRole(entity.RoleAdmin).RunAndReturn(held.HasAny).Maybe()
	session.EXPECT().HasAnyRole(entity.RoleSeller, entity.RoleAdmin).RunAndReturn(held.HasAny).Maybe()

	return session
}

func newTestRouter(session SessionReader) (*Router, *History) {
	history := NewHistory("/", testLogger)
	router := NewRouterWithRoutes(history, "/", testLogger, StorefrontRoutes(session, "/login", "/")...)

	return router, history
}

func TestGuards_RedirectTargetsAreDistinct(t *testing.T) {
	anonymous := mockNavigation.NewMockSessionReader(t)
	anonymous.EXPECT().Authenticated().Return(false).Once()
	customer := mockNavigation.NewMockSessionReader(t)
	customer.EXPECT().HasAnyRole(entity.RoleAdmin).Return(false).Once()

	d := RequireAuthenticated(anonymous, "/login")()
	assert.False(t, d.Allowed)
	assert.Equal(t, "/login", d.Redirect)

	d = RequireAnyRole(customer, "/", entity.RoleAdmin)()
	assert.False(t, d.Allowed)
	assert.Equal(t, "/", d.Redirect)
}

func TestEvaluate_ShortCircuits(t *testing.T) {
	var calls []string
	guard := func(name string, allow bool) Guard {
		return func() Decision {
			calls = append(calls, name)
			if allow {
				return Allow()
			}

			return DenyTo("/" + name)
		}
	}

	d := Evaluate(guard("a", true), guard("b", false), guard("c", false))

	assert.Equal(t, Decision{Redirect: "/b"}, d)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.True(t, Evaluate().Allowed)
}

func TestRouter_Navigate(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		roles         []entity.Role
		target        string
		wantLoc       string
		wantRoute     string
	}{
		{name: "public page", target: "/products", wantLoc: "/products", wantRoute: "products"},
		{name: "anonymous cart goes to login", target: "/cart", wantLoc: "/login", wantRoute: "login"},
		{
			name:          "signed in cart",
			authenticated: true,
			roles:         []entity.Role{entity.RoleUser},
			target:        "/cart",
			wantLoc:       "/cart",
			wantRoute:     "cart",
		},
		{name: "anonymous admin goes to login", target: "/admin", wantLoc: "/login", wantRoute: "login"},
		{
			name:          "customer admin goes home",
			authenticated: true,
			roles:         []entity.Role{entity.RoleUser},
			target:        "/admin",
			wantLoc:       "/",
			wantRoute:     "home",
		},
		{
			name:          "legacy admin role",
			authenticated: true,
			roles:         []entity.Role{"ERole.ROLE_ADMIN"},
			target:        "/admin",
			wantLoc:       "/admin",
			wantRoute:     "admin",
		},
		{
			name:          "admin may sell",
			authenticated: true,
			roles:         []entity.Role{entity.RoleAdmin},
			target:        "/seller",
			wantLoc:       "/seller",
			wantRoute:     "seller",
		},
		{name: "unknown goes home", target: "/nowhere/at/all", wantLoc: "/", wantRoute: "home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, history := newTestRouter(sessionAs(t, tt.authenticated, tt.roles...))

			res := router.Navigate(context.Background(), tt.target)

			assert.Equal(t, tt.wantLoc, res.Location)
			assert.Equal(t, tt.wantRoute, res.Route)
			assert.Equal(t, tt.wantLoc, history.Location())
			assert.Equal(t, tt.target != tt.wantLoc, res.Redirected)
		})
	}
}

func TestRouter_RouteParams(t *testing.T) {
	router, _ := newTestRouter(sessionAs(t, true))

	res := router.Navigate(context.Background(), "/orders/42")

	assert.Equal(t, "order", res.Route)
	assert.Equal(t, map[string]string{"id": "42"}, res.Params)
}

func TestRouter_QueryIsKept(t *testing.T) {
	router, _ := newTestRouter(sessionAs(t, false))

	res := router.Navigate(context.Background(), "/verify?token=abc")

	assert.Equal(t, "verify", res.Route)
	assert.Equal(t, "/verify?token=abc", router.Location())
}

func TestRouter_HardNavigateSkipsGuards(t *testing.T) {
	router, history := newTestRouter(sessionAs(t, false))

	var seen []string
	cancel := history.Subscribe(func(p string) { seen = append(seen, p) })
	defer cancel()

	router.HardNavigate(context.Background(), "/admin")

	assert.Equal(t, "/admin", router.Location())
	assert.Equal(t, []string{"/admin"}, seen)
}

func TestRouter_RedirectLoopEndsHome(t *testing.T) {
	history := NewHistory("/start", testLogger)
	loop := func() Decision { return DenyTo("/b") }
	router := NewRouterWithRoutes(history, "/", testLogger,
		Route{Name: "a", Pattern: "/a", Guards: []Guard{loop}},
		Route{Name: "b", Pattern: "/b", Guards: []Guard{func() Decision { return DenyTo("/a") }}},
	)

	res := router.Navigate(context.Background(), "/a")

	require.True(t, res.Redirected)
	assert.Equal(t, "/", res.Location)
	assert.Equal(t, "/", history.Location())
}
