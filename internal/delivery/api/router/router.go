// Package router contains routing for the sandbox HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	CartHandler     *handler.CartHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	OrderHandler    *handler.OrderHandler
	ImageHandler    *handler.ImageHandler
	HealthHandler   *handler.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	auth       *handler.AuthHandler
	users      *handler.UserHandler
	carts      *handler.CartHandler
	products   *handler.ProductHandler
	categories *handler.CategoryHandler
	orders     *handler.OrderHandler
	images     *handler.ImageHandler
	health     *handler.HealthHandler
	authMw     *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		auth:       params.AuthHandler,
		users:      params.UserHandler,
		carts:      params.CartHandler,
		products:   params.ProductHandler,
		categories: params.CategoryHandler,
		orders:     params.OrderHandler,
		images:     params.ImageHandler,
		health:     params.HealthHandler,
		authMw:     params.AuthMiddleware,
	}
}

// RegisterRoutes sets up the backend contract the storefront client consumes.
// Role checks are attached per route so public and protected endpoints can share a prefix.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authn := r.authMw.Authenticate
	admin := r.authMw.RequireRole(entity.RoleAdmin)
	seller := r.authMw.RequireRole(entity.RoleSeller, entity.RoleAdmin)

	e.GET("/health", r.health.HealthCheck)
	e.GET("/health/session", r.health.Session, authn)
	e.GET("/images/:name", r.images.GetImage)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.auth.Signup)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/logout", r.auth.Logout)
		authGroup.POST("/logoutall", r.auth.LogoutAll, authn)
		authGroup.GET("/verify", r.auth.Verify)
		authGroup.POST("/refresh", r.auth.Refresh)
	}

	usersGroup := e.Group("/users")
	{
		usersGroup.GET("/me", r.users.GetMe, authn)
		usersGroup.PATCH("/me", r.users.UpdateMe, authn)
		usersGroup.DELETE("/me", r.users.DeleteMe, authn)
		usersGroup.POST("/me/address", r.users.AddAddress, authn)
		usersGroup.DELETE("/me/address/:id", r.users.DeleteAddress, authn)
		usersGroup.POST("/:id/update-image", r.users.UploadImage, authn)

		usersGroup.GET("/alluser", r.users.ListUsers, authn, admin)
		usersGroup.GET("/users-with-addresses", r.users.ListUsersWithAddresses, authn, admin)
		usersGroup.GET("/find", r.users.FindUser, authn, admin)
		usersGroup.PATCH("/setrole/:id", r.users.SetRole, authn, admin)
		usersGroup.PATCH("/removerole/:id", r.users.RemoveRole, authn, admin)
		usersGroup.DELETE("/Delete/:id", r.users.DeleteUser, authn, admin)
	}

	cartGroup := e.Group("/cart")
	{
		cartGroup.GET("", r.carts.GetCart, authn)
		cartGroup.POST("/add", r.carts.AddToCart, authn)
		cartGroup.DELETE("/remove/:id", r.carts.RemoveFromCart, authn)
	}

	productsGroup := e.Group("/products")
	{
		productsGroup.GET("", r.products.ListProducts)
		productsGroup.GET("/search", r.products.Search)
		productsGroup.GET("/category/:name", r.products.ListByCategory)
		productsGroup.GET("/:id", r.products.GetProduct)

		productsGroup.POST("/add-produit", r.products.Create, authn, seller)
		productsGroup.PUT("/:id", r.products.Update, authn, seller)
		productsGroup.PATCH("/:id/stock", r.products.UpdateStock, authn, seller)
		productsGroup.POST("/:id/update-image", r.products.UploadImage, authn, seller)
	}

	categoryGroup := e.Group("/category")
	{
		categoryGroup.GET("/all", r.categories.ListCategories)
		categoryGroup.POST("", r.categories.Create, authn, seller)
		categoryGroup.PATCH("/:id", r.categories.Rename, authn, seller)
		categoryGroup.DELETE("/:id", r.categories.Delete, authn, admin)
	}

	ordersGroup := e.Group("/orders")
	{
		ordersGroup.GET("", r.orders.ListOrders, authn)
		ordersGroup.POST("/place", r.orders.PlaceOrder, authn)
		ordersGroup.GET("/:id", r.orders.GetOrder, authn)
		ordersGroup.PUT("/admin/:id/status", r.orders.UpdateStatus, authn, admin)
	}
}
