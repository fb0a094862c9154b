// Package memory is the in-process storage of the sandbox backend.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/fx"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/util"
)

const tokenSweepInterval = time.Minute

var (
	_ repository.UserRepository         = (*Store)(nil)
	_ repository.AddressRepository      = (*Store)(nil)
	_ repository.RefreshTokenRepository = (*Store)(nil)
	_ repository.ProductRepository      = (*Store)(nil)
	_ repository.CategoryRepository     = (*Store)(nil)
	_ repository.CartRepository         = (*Store)(nil)
	_ repository.OrderRepository        = (*Store)(nil)
	_ repository.ImageRepository        = (*Store)(nil)
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	Hasher service.PasswordHasher
}

type userRecord struct {
	user entity.User
	cred entity.Credential
}

type orderRecord struct {
	userID int64
	order  entity.Order
}

type idSequence struct {
	user, address, category, product, cart, cartItem, order int64
}

// Store keeps every sandbox resource behind one lock. Values handed out are copies.
type Store struct {
	mu  sync.RWMutex
	ids idSequence
	now func() time.Time

	users      map[int64]*userRecord
	tokens     map[string]*entity.RefreshToken
	categories map[int64]*entity.Category
	products   map[int64]*entity.Product
	carts      map[int64]*entity.Cart
	orders     map[int64]*orderRecord
	images     map[string]*repository.Image

	logger *slog.Logger
}

// NewStore creates an empty Store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		now:        time.Now,
		users:      map[int64]*userRecord{},
		tokens:     map[string]*entity.RefreshToken{},
		categories: map[int64]*entity.Category{},
		products:   map[int64]*entity.Product{},
		carts:      map[int64]*entity.Cart{},
		orders:     map[int64]*orderRecord{},
		images:     map[string]*repository.Image{},
		logger:     logger,
	}
}

// New creates a Store seeded from the sandbox configuration and sweeps expired sessions
// while the application runs.
func New(params Params) (*Store, error) {
	if params.Config.Sandbox == nil {
		return nil, errors.New("sandbox configuration is required")
	}

	store := NewStore(params.Logger)
	if err := store.Seed(context.Background(), params.Hasher, params.Config.Sandbox.Seed); err != nil {
		return nil, err
	}

	sweepCtx, cancelSweep := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go store.sweepTokens(sweepCtx, tokenSweepInterval)

			return nil
		},
		OnStop: func(context.Context) error {
			cancelSweep()

			return nil
		},
	})

	return store, nil
}

func (s *Store) sweepTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Debug("Session sweeper started", slog.String("interval", util.Interval(interval)))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.deleteExpiredTokens(); n > 0 {
				s.logger.Debug("Swept expired sessions", slog.Int("count", n))
			}
		}
	}
}

func cloneUser(u *entity.User, withAddresses bool) entity.User {
	out := *u
	out.Roles = append(entity.Roles(nil), u.Roles...)
	out.Addresses = nil
	if withAddresses {
		out.Addresses = append([]entity.Address{}, u.Addresses...)
	}

	return out
}

func cloneCart(c *entity.Cart) *entity.Cart {
	out := *c
	out.Items = append([]entity.CartItem{}, c.Items...)

	return &out
}

func cloneOrder(o *entity.Order) *entity.Order {
	out := *o
	out.Items = append([]entity.OrderItem{}, o.Items...)

	return &out
}
