package navigation

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"go.uber.org/fx"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"
)

// maxRedirects bounds guard redirect chains.
const maxRedirects = 3

// Route is one entry of the route table. Pattern segments starting with ":" match any
// single segment.
type Route struct {
	Name    string
	Pattern string
	Guards  []Guard
}

func (r Route) match(path string) (map[string]string, bool) {
	want := splitPath(r.Pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			params[name] = got[i]

			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}

	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}

	return strings.Split(p, "/")
}

// Result describes where a navigation landed.
type Result struct {
	Requested  string
	Location   string
	Route      string
	Params     map[string]string
	Redirected bool
}

// Router resolves paths against the route table and applies guards before moving the history.
type Router struct {
	history  *History
	routes   []Route
	homePath string
	logger   *slog.Logger
}

// Params is the fx parameter object for NewRouter.
type Params struct {
	fx.In

	Config  *config.Config
	History *History
	Session usecase.SessionUsecase
	Logger  *slog.Logger
}

// NewRouter builds the storefront route table over the session store.
func NewRouter(params Params) *Router {
	nav := params.Config.Navigation

	return NewRouterWithRoutes(params.History, nav.HomePath, params.Logger,
		StorefrontRoutes(params.Session, nav.LoginPath, nav.HomePath)...)
}

// NewRouterWithRoutes builds a Router over an explicit route table.
func NewRouterWithRoutes(history *History, homePath string, logger *slog.Logger, routes ...Route) *Router {
	return &Router{
		history:  history,
		routes:   routes,
		homePath: homePath,
		logger:   logger.With(slog.String("component", "router")),
	}
}

// StorefrontRoutes is the route table of the storefront.
func StorefrontRoutes(session SessionReader, loginPath, homePath string) []Route {
	authenticated := RequireAuthenticated(session, loginPath)
	admin := RequireAnyRole(session, homePath, entity.RoleAdmin)
	seller := RequireAnyRole(session, homePath, entity.RoleSeller, entity.RoleAdmin)

	return []Route{
		{Name: "home", Pattern: "/"},
		{Name: "login", Pattern: "/login"},
		{Name: "signup", Pattern: "/signup"},
		{Name: "verify", Pattern: "/verify"},
		{Name: "products", Pattern: "/products"},
		{Name: "cart", Pattern: "/cart", Guards: []Guard{authenticated}},
		{Name: "checkout", Pattern: "/checkout", Guards: []Guard{authenticated}},
		{Name: "orders", Pattern: "/orders", Guards: []Guard{authenticated}},
		{Name: "order", Pattern: "/orders/:id", Guards: []Guard{authenticated}},
		{Name: "profile", Pattern: "/profile", Guards: []Guard{authenticated}},
		{Name: "admin", Pattern: "/admin", Guards: []Guard{authenticated, admin}},
		{Name: "seller", Pattern: "/seller", Guards: []Guard{authenticated, seller}},
	}
}

// Navigate moves to target if its guards allow it, following guard redirects otherwise.
// Unknown paths go home.
func (r *Router) Navigate(ctx context.Context, target string) Result {
	logger := deliverycontext.GetLoggerOrDefault(ctx, r.logger)
	res := Result{Requested: target}

	path := target
	for range maxRedirects + 1 {
		route, params, ok := r.resolve(path)
		if !ok {
			logger.Debug("Unknown route", slog.String("path", path))
			path = r.homePath
			res.Redirected = true

			continue
		}

		d := Evaluate(route.Guards...)
		if !d.Allowed {
			logger.Info("Navigation denied",
				slog.String("route", route.Name),
				slog.String("redirect", d.Redirect),
			)
			path = d.Redirect
			res.Redirected = true

			continue
		}

		res.Location = path
		res.Route = route.Name
		res.Params = params
		r.history.set(path)

		return res
	}

	logger.Warn("Redirect chain too long, going home", slog.String("requested", target))
	res.Location = r.homePath
	res.Route = ""
	r.history.set(r.homePath)

	return res
}

// HardNavigate moves without consulting guards.
func (r *Router) HardNavigate(ctx context.Context, path string) {
	r.history.HardNavigate(ctx, path)
}

// Location returns the current path.
func (r *Router) Location() string {
	return r.history.Location()
}

// Subscribe observes location changes.
func (r *Router) Subscribe(fn func(string)) (cancel func()) {
	return r.history.Subscribe(fn)
}

func (r *Router) resolve(target string) (Route, map[string]string, bool) {
	path := target
	if u, err := url.Parse(target); err == nil {
		path = u.Path
	}

	for _, route := range r.routes {
		if params, ok := route.match(path); ok {
			return route, params, true
		}
	}

	return Route{}, nil, false
}
