package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/shopcart-backend/internal/notifications"
	"github.com/angelmondragon/shopcart-backend/internal/storage"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/metrics"
	"github.com/angelmondragon/shopcart-backend/pkg/pricing"
)

// Service exposes the cart operations for a single cart.
type Service interface {
	Snapshot(ctx context.Context) State
	Totals(ctx context.Context) pricing.Quote
	AddToCart(ctx context.Context, productID string) (State, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int) (State, error)
	RemoveFromCart(ctx context.Context, productID string) (State, error)
	ApplyCoupon(ctx context.Context, code string) (State, error)
	UnapplyCoupon(ctx context.Context) (State, error)
	ClearCart(ctx context.Context) (State, error)
	CompleteOrder(ctx context.Context) (Receipt, error)
	HandleCouponDeleted(ctx context.Context, code string)
}

// Receipt describes a completed order.
type Receipt struct {
	OrderNumber string          `json:"order_number"`
	Quote       pricing.Quote   `json:"quote"`
	Coupon      *pricing.Coupon `json:"coupon,omitempty"`
}

type productLookup interface {
	GetProduct(ctx context.Context, id string) (pricing.Product, error)
}

type couponLookup interface {
	GetCoupon(ctx context.Context, code string) (pricing.Coupon, error)
}

// Options tune the cart service.
type Options struct {
	CartID  string
	Metrics *metrics.CartMetrics
	Now     func() time.Time
}

type service struct {
	mu       sync.Mutex
	state    State
	cartID   string
	products productLookup
	coupons  couponLookup
	store    storage.BlobStore
	notifier notifications.Notifier
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService restores the cart from store and returns the service managing it.
func NewService(ctx context.Context, store storage.BlobStore, products productLookup, coupons couponLookup, notifier notifications.Notifier, logg *logger.Logger, opts Options) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon lookup required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	items, _, err := storage.LoadJSON(ctx, store, logg, storage.KeyCart, pricing.Cart{})
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	selected, _, err := storage.LoadJSON[*pricing.Coupon](ctx, store, logg, storage.KeySelectedCoupon, nil)
	if err != nil {
		return nil, fmt.Errorf("loading selected coupon: %w", err)
	}

	if selected != nil {
		if _, err := coupons.GetCoupon(ctx, selected.Code); err != nil {
			logg.Warn(logg.WithCouponCode(ctx, selected.Code), "stored coupon selection no longer exists, dropping it")
			selected = nil
		}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cartID := opts.CartID
	if cartID == "" {
		cartID = "default"
	}

	return &service{
		state:    State{Items: sanitize(items), SelectedCoupon: selected}.Clone(),
		cartID:   cartID,
		products: products,
		coupons:  coupons,
		store:    store,
		notifier: notifier,
		metrics:  opts.Metrics,
		logg:     logg,
		now:      now,
	}, nil
}

// sanitize drops lines that could not have been produced by a transition.
func sanitize(items pricing.Cart) pricing.Cart {
	out := make(pricing.Cart, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.Product.ID == "" || out.IndexOf(item.Product.ID) >= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *service) Snapshot(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx, s.state)
}

func (s *service) Totals(ctx context.Context) pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx, s.state).Quote()
}

func (s *service) AddToCart(ctx context.Context, productID string) (State, error) {
	ctx = s.logg.WithProductID(s.logg.WithCartID(ctx, s.cartID), productID)

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		s.observe("add_to_cart", err, s.now())
		s.notifyError(ctx, err)
		return s.Snapshot(ctx), err
	}

	next, err := s.mutate(ctx, "add_to_cart", func(state State) (State, error) {
		return AddToCart(state, product)
	})
	if err != nil {
		s.notifyError(ctx, err)
		return next, err
	}
	s.notifier.Notify(ctx, enums.NotificationTypeSuccess, "added to cart")
	return next, nil
}

func (s *service) UpdateQuantity(ctx context.Context, productID string, quantity int) (State, error) {
	ctx = s.logg.WithProductID(s.logg.WithCartID(ctx, s.cartID), productID)
	if quantity <= 0 {
		return s.mutate(ctx, "update_quantity", func(state State) (State, error) {
			return RemoveFromCart(state, productID), nil
		})
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		s.observe("update_quantity", err, s.now())
		s.notifyError(ctx, err)
		return s.Snapshot(ctx), err
	}

	next, err := s.mutate(ctx, "update_quantity", func(state State) (State, error) {
		return UpdateQuantity(state, product, quantity)
	})
	if err != nil {
		s.notifyError(ctx, err)
	}
	return next, err
}

func (s *service) RemoveFromCart(ctx context.Context, productID string) (State, error) {
	ctx = s.logg.WithProductID(s.logg.WithCartID(ctx, s.cartID), productID)
	return s.mutate(ctx, "remove_from_cart", func(state State) (State, error) {
		return RemoveFromCart(state, productID), nil
	})
}

func (s *service) ApplyCoupon(ctx context.Context, code string) (State, error) {
	ctx = s.logg.WithCouponCode(s.logg.WithCartID(ctx, s.cartID), code)

	coupon, err := s.coupons.GetCoupon(ctx, code)
	if err != nil {
		s.observe("apply_coupon", err, s.now())
		s.notifyError(ctx, err)
		return s.Snapshot(ctx), err
	}

	next, err := s.mutate(ctx, "apply_coupon", func(state State) (State, error) {
		return ApplyCoupon(state, coupon)
	})
	if err != nil {
		s.notifyError(ctx, err)
		return next, err
	}
	s.notifier.Notify(ctx, enums.NotificationTypeSuccess, "coupon applied")
	return next, nil
}

func (s *service) UnapplyCoupon(ctx context.Context) (State, error) {
	ctx = s.logg.WithCartID(ctx, s.cartID)
	return s.mutate(ctx, "unapply_coupon", func(state State) (State, error) {
		return UnapplyCoupon(state), nil
	})
}

func (s *service) ClearCart(ctx context.Context) (State, error) {
	ctx = s.logg.WithCartID(ctx, s.cartID)
	return s.mutate(ctx, "clear_cart", func(state State) (State, error) {
		return ClearCart(state), nil
	})
}

// CompleteOrder prices the cart, issues an order number and empties the cart.
func (s *service) CompleteOrder(ctx context.Context) (Receipt, error) {
	ctx = s.logg.WithCartID(ctx, s.cartID)

	var receipt Receipt
	_, err := s.mutate(ctx, "complete_order", func(state State) (State, error) {
		if len(state.Items) == 0 {
			return state, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		receipt = Receipt{
			OrderNumber: fmt.Sprintf("ORD-%d", s.now().UnixMilli()),
			Quote:       state.Quote(),
			Coupon:      state.Clone().SelectedCoupon,
		}
		return ClearCart(state), nil
	})
	if err != nil {
		s.notifyError(ctx, err)
		return Receipt{}, err
	}

	s.metrics.IncOrders()
	s.metrics.ObserveTotal(receipt.Quote.TotalAfterDiscount)
	ctx = s.logg.WithField(ctx, "order_number", receipt.OrderNumber)
	s.logg.Info(ctx, "order completed")
	s.notifier.Notify(ctx, enums.NotificationTypeSuccess, "order completed. order number: "+receipt.OrderNumber)
	return receipt, nil
}

// HandleCouponDeleted clears the selection when the removed coupon is the selected one.
// The selection is dropped in memory even when it cannot be saved; the next successful
// mutation persists it.
func (s *service) HandleCouponDeleted(ctx context.Context, code string) {
	ctx = s.logg.WithCouponCode(s.logg.WithCartID(ctx, s.cartID), code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedCoupon == nil || s.state.SelectedCoupon.Code != code {
		return
	}

	start := s.now()
	next := UnapplyCoupon(s.current(ctx, s.state))
	s.state = next
	err := s.persist(ctx, next)
	s.observe("coupon_deleted", err, start)
	if err != nil {
		s.logg.Error(ctx, "failed to persist cart after coupon deletion", err)
	}
}

// mutate applies fn to the current state and commits the result only after it is persisted.
func (s *service) mutate(ctx context.Context, op string, fn func(State) (State, error)) (State, error) {
	start := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.current(ctx, s.state)
	next, err := fn(base.Clone())
	if err == nil {
		err = s.persist(ctx, next)
	}
	s.observe(op, err, start)
	if err != nil {
		return base, err
	}
	s.state = next
	return next.Clone(), nil
}

// current returns a copy of state priced against the live catalog. Callers hold s.mu.
func (s *service) current(ctx context.Context, state State) State {
	refreshed, capped := RefreshProducts(state, func(id string) (pricing.Product, bool) {
		product, err := s.products.GetProduct(ctx, id)
		return product, err == nil
	})
	if len(capped) > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "capped_products", capped), "cart quantities capped at current stock")
	}
	return refreshed
}

func (s *service) persist(ctx context.Context, state State) error {
	items, err := storage.Encode(storage.KeyCart, state.Items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	selected, err := storage.Encode(storage.KeySelectedCoupon, state.SelectedCoupon)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding selected coupon")
	}
	if err := s.store.SaveMany(ctx, map[string][]byte{
		storage.KeyCart:           items,
		storage.KeySelectedCoupon: selected,
	}); err != nil {
		s.logg.Error(ctx, "failed to persist cart", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting cart")
	}
	return nil
}

func (s *service) observe(op string, err error, start time.Time) {
	code := ""
	if err != nil {
		code = string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
	}
	s.metrics.ObserveOperation(op, code, s.now().Sub(start))
}

func (s *service) notifyError(ctx context.Context, err error) {
	message := err.Error()
	if typed := pkgerrors.As(err); typed != nil {
		message = typed.Message()
	}
	s.notifier.Notify(ctx, enums.NotificationTypeError, message)
}
