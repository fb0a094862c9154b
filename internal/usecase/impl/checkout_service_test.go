package impl

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/validation"
	"storefront/internal/usecase"
)

type checkoutFixture struct {
	checkout  usecase.CheckoutUsecase
	cart      usecase.CartUsecase
	orders    usecase.OrderUsecase
	placed    atomic.Int32
	cartLoads atomic.Int32
	method    atomic.Value
}

func newCheckoutFixture(t *testing.T, user entity.User) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders/place", func(w http.ResponseWriter, r *http.Request) {
		var req entity.PlaceOrderRequest
		_ = decodeBody(r, &req)
		f.placed.Add(1)
		f.method.Store(req.PaymentMethod)
		writeJSON(w, http.StatusCreated, entity.Order{ID: 1, OrderNumber: "ORD-1", Status: entity.OrderNew, PaymentMethod: req.PaymentMethod})
	})
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, _ *http.Request) {
		f.cartLoads.Add(1)
		writeJSON(w, http.StatusOK, entity.Cart{ID: 1})
	})

	client, _ := newTestClient(t, mux)
	session := signedIn(t, client, mux, user)
	f.cart = NewCartService(client, session, testLogger)
	f.orders = NewOrderService(client, session, validation.New(), testConfig(), testLogger)
	f.checkout = NewCheckoutService(session, f.cart, f.orders, testLogger)

	return f
}

func TestCheckoutService_DefaultAddress(t *testing.T) {
	f := newCheckoutFixture(t, adminUser())

	addr := f.checkout.DefaultAddress()
	require.NotNil(t, addr)
	assert.Equal(t, int64(7), addr.ID)

	bare := newCheckoutFixture(t, entity.User{ID: 5, Username: "bare"})
	assert.Nil(t, bare.checkout.DefaultAddress())
}

func TestCheckoutService_MissingAddress(t *testing.T) {
	f := newCheckoutFixture(t, adminUser())

	_, err := f.checkout.PlaceOrder(context.Background(), 0, entity.PaymentCreditCard)
	require.ErrorIs(t, err, domainerrors.ErrShippingAddressRequired)

	assert.Equal(t, "Please select a shipping address", f.checkout.Error())
	assert.Zero(t, f.placed.Load())
	assert.False(t, f.checkout.Loading())
}

func TestCheckoutService_PlaceOrderReloadsCart(t *testing.T) {
	f := newCheckoutFixture(t, adminUser())

	order, err := f.checkout.PlaceOrder(context.Background(), 7, "")
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.OrderNumber)
	assert.Equal(t, entity.PaymentCashOnDelivery, f.method.Load())
	assert.Equal(t, int32(1), f.cartLoads.Load())
	assert.Empty(t, f.checkout.Error())
}
