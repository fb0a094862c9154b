package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{Sandbox: &config.SandboxConfig{
		BcryptCost: bcrypt.MinCost,
		Seed: []config.SeedUser{
			{Username: "admin", Email: "admin@example.com", Password: "admin123", Roles: []string{"ROLE_USER", "ROLE_ADMIN"}},
			{Username: "buyer", Email: "buyer@example.com", Password: "buyer123"},
		},
	}}
}

func newSeededStore(t *testing.T) *Store {
	t.Helper()

	cfg := testConfig()
	lc := fxtest.NewLifecycle(t)
	store, err := New(Params{Lifecycle: lc, Config: cfg, Logger: testLogger(), Hasher: auth.NewBcryptHasher(cfg)})
	require.NoError(t, err)

	lc.RequireStart()
	t.Cleanup(lc.RequireStop)

	return store
}

func pageReq(sortBy string, dir entity.Direction) repository.PageRequest {
	return repository.PageRequest{Page: 0, Size: 10, SortBy: sortBy, Direction: dir}
}

func TestNew_RequiresSandboxConfig(t *testing.T) {
	_, err := New(Params{Lifecycle: fxtest.NewLifecycle(t), Config: &config.Config{}, Logger: testLogger()})

	require.Error(t, err)
}

func TestSeed_CreatesVerifiedUsersAndCatalog(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	admin, err := store.FindUserByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.True(t, admin.Roles.Has(entity.RoleAdmin))

	buyer, err := store.FindUserByQuery(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, entity.Roles{entity.RoleUser}, buyer.Roles)

	cred, err := store.FindCredential(ctx, buyer.ID)
	require.NoError(t, err)
	assert.True(t, cred.Verified)

	products, err := store.ListProducts(ctx, pageReq("id", entity.Ascending))
	require.NoError(t, err)
	assert.EqualValues(t, len(seedCatalog), products.TotalElements)

	categories, err := store.ListCategories(ctx, pageReq("name", entity.Ascending))
	require.NoError(t, err)
	require.Len(t, categories.Content, 3)
	assert.Equal(t, "Electronics", categories.Content[0].Name)
}

func TestCreateUser_VerificationFlow(t *testing.T) {
	store := NewStore(testLogger())
	ctx := context.Background()

	user := &entity.User{Username: "new", Email: "new@example.com", Roles: entity.Roles{entity.RoleUser}}
	require.NoError(t, store.CreateUser(ctx, user, &entity.Credential{PasswordHash: "x"}))
	assert.NotZero(t, user.ID)

	err := store.CreateUser(ctx, &entity.User{Username: "other", Email: "NEW@example.com"}, &entity.Credential{})
	require.ErrorIs(t, err, repository.ErrUserExists)

	token, ok := store.VerificationToken("new@example.com")
	require.True(t, ok)

	_, err = store.VerifyEmail(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrVerifyTokenNotFound)

	verified, err := store.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, ok = store.VerificationToken("new@example.com")
	assert.False(t, ok)
}

func TestPaginate(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	page, err := store.ListProducts(ctx, repository.PageRequest{Page: 1, Size: 2, SortBy: "price", Direction: entity.Descending})
	require.NoError(t, err)

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.False(t, page.First)
	assert.False(t, page.Last)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Desk lamp", page.Content[0].Name)
	assert.Equal(t, "Ceramic mug", page.Content[1].Name)

	last, err := store.ListProducts(ctx, repository.PageRequest{Page: 5, Size: 2, SortBy: "bogus"})
	require.NoError(t, err)
	assert.Empty(t, last.Content)
	assert.True(t, last.Last)
}

func TestProducts_SearchAndCategory(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	found, err := store.SearchProducts(ctx, "  usb ", pageReq("id", entity.Ascending))
	require.NoError(t, err)
	require.Len(t, found.Content, 1)
	assert.Equal(t, "USB-C hub", found.Content[0].Name)

	byDescription, err := store.SearchProducts(ctx, "LED", pageReq("id", entity.Ascending))
	require.NoError(t, err)
	require.Len(t, byDescription.Content, 1)
	assert.Equal(t, "Desk lamp", byDescription.Content[0].Name)

	home, err := store.ListProductsByCategory(ctx, "home", pageReq("id", entity.Ascending))
	require.NoError(t, err)
	assert.Len(t, home.Content, 2)
}

func TestCategories_Lifecycle(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "home")
	require.ErrorIs(t, err, repository.ErrCategoryExists)

	garden, err := store.CreateCategory(ctx, "Garden")
	require.NoError(t, err)

	product, err := store.CreateProduct(ctx, entity.ProductRequest{Name: "Rake", Price: 10, Category: entity.Category{ID: garden.ID}})
	require.NoError(t, err)
	assert.Equal(t, "Garden", product.Category.Name)

	require.ErrorIs(t, store.DeleteCategory(ctx, garden.ID), repository.ErrCategoryInUse)

	_, err = store.RenameCategory(ctx, garden.ID, "Outdoor")
	require.NoError(t, err)
	reloaded, err := store.FindProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Outdoor", reloaded.Category.Name)

	_, err = store.CreateProduct(ctx, entity.ProductRequest{Name: "Hose", Price: 5, Category: entity.Category{ID: 999}})
	require.ErrorIs(t, err, repository.ErrCategoryNotFound)

	empty, err := store.CreateCategory(ctx, "Empty")
	require.NoError(t, err)
	require.NoError(t, store.DeleteCategory(ctx, empty.ID))
	require.ErrorIs(t, store.DeleteCategory(ctx, empty.ID), repository.ErrCategoryNotFound)
}

func TestCart_AddMergesAndRecomputes(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	buyer, err := store.FindUserByQuery(ctx, "buyer")
	require.NoError(t, err)

	empty, err := store.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = store.AddToCart(ctx, buyer.ID, 2, 2)
	require.NoError(t, err)
	cart, err := store.AddToCart(ctx, buyer.ID, 2, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 2700.0, cart.Items[0].Subtotal, 0.001)
	assert.Equal(t, 3, cart.TotalItems)
	assert.InDelta(t, 2700.0, cart.TotalPrice, 0.001)

	_, err = store.AddToCart(ctx, buyer.ID, 4, 9)
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	_, err = store.AddToCart(ctx, buyer.ID, 404, 1)
	require.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = store.RemoveFromCart(ctx, buyer.ID, 999)
	require.ErrorIs(t, err, repository.ErrCartItemNotFound)

	cart, err = store.RemoveFromCart(ctx, buyer.ID, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
}

func TestOrders_PlaceListAndUpdate(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()
	buyer, err := store.FindUserByQuery(ctx, "buyer")
	require.NoError(t, err)

	req := entity.PlaceOrderRequest{ShippingAddressID: 1, PaymentMethod: entity.PaymentCashOnDelivery}
	_, err = store.PlaceOrder(ctx, buyer.ID, req)
	require.ErrorIs(t, err, repository.ErrAddressNotFound)

	addr, err := store.CreateAddress(ctx, buyer.ID, entity.AddressRequest{Street: "1 Rue", Wilaya: "Alger", Commune: "Hydra", CodePostal: "16000"})
	require.NoError(t, err)
	req.ShippingAddressID = addr.ID

	_, err = store.PlaceOrder(ctx, buyer.ID, req)
	require.ErrorIs(t, err, repository.ErrEmptyCart)

	_, err = store.AddToCart(ctx, buyer.ID, 4, 2)
	require.NoError(t, err)

	order, err := store.PlaceOrder(ctx, buyer.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderNew, order.Status)
	assert.Contains(t, order.OrderNumber, "ORD-")
	assert.InDelta(t, 10800.0, order.TotalAmount, 0.001)
	assert.Equal(t, *addr, order.ShippingAddress)
	require.Len(t, order.Items, 1)

	product, err := store.FindProduct(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)

	cart, err := store.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	orders, err := store.ListOrdersByUser(ctx, buyer.ID, pageReq("createdAt", entity.Descending))
	require.NoError(t, err)
	require.Len(t, orders.Content, 1)

	_, err = store.FindOrder(ctx, buyer.ID+100, order.ID)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
	_, err = store.FindOrder(ctx, 0, order.ID)
	require.NoError(t, err)

	shipped, err := store.UpdateOrderStatus(ctx, order.ID, entity.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, shipped.Status)

	_, err = store.UpdateOrderStatus(ctx, order.ID, entity.OrderCancelled)
	require.ErrorIs(t, err, repository.ErrOrderClosed)
}

func TestRefreshTokens_ExpiryAndSweep(t *testing.T) {
	store := NewStore(testLogger())
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.CreateRefreshToken(ctx, &entity.RefreshToken{ID: "live", UserID: 1, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.CreateRefreshToken(ctx, &entity.RefreshToken{ID: "dead", UserID: 1, ExpiresAt: now.Add(-time.Second)}))

	_, err := store.FindRefreshTokenByID(ctx, "dead")
	require.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)

	n, err := store.CountActiveSessionsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, 1, store.deleteExpiredTokens())

	require.NoError(t, store.DeleteRefreshTokensByUserID(ctx, 1))
	_, err = store.FindRefreshTokenByID(ctx, "live")
	require.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)
}

func TestImages_SaveAndFind(t *testing.T) {
	store := NewStore(testLogger())
	ctx := context.Background()

	_, err := store.SaveImage(ctx, repository.Image{Name: "a.png"})
	require.Error(t, err)

	name, err := store.SaveImage(ctx, repository.Image{Name: "Photo.PNG", ContentType: "image/png", Content: []byte{1, 2, 3}})
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f-]{36}\.png$`, name)

	img, err := store.FindImage(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, img.Content)

	_, err = store.FindImage(ctx, "missing.png")
	require.ErrorIs(t, err, repository.ErrImageNotFound)
}
