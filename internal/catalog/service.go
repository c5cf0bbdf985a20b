package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopcart-backend/internal/notifications"
	"github.com/angelmondragon/shopcart-backend/internal/storage"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/pricing"
)

// Service exposes product and coupon management.
type Service interface {
	ListProducts(ctx context.Context) []pricing.Product
	SearchProducts(ctx context.Context, term string) []pricing.Product
	GetProduct(ctx context.Context, id string) (pricing.Product, error)
	AddProduct(ctx context.Context, input ProductInput) (pricing.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (pricing.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCoupons(ctx context.Context) []pricing.Coupon
	GetCoupon(ctx context.Context, code string) (pricing.Coupon, error)
	AddCoupon(ctx context.Context, input CouponInput) (pricing.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error

	// OnCouponDeleted registers a callback invoked after a coupon is removed.
	OnCouponDeleted(fn func(ctx context.Context, code string))
}

// Options tune the catalog service.
type Options struct {
	SeedDefaults bool
	// NewProductID overrides product id generation.
	NewProductID func() string
}

type service struct {
	mu       sync.RWMutex
	store    storage.BlobStore
	notifier notifications.Notifier
	logg     *logger.Logger
	newID    func() string

	products []pricing.Product
	coupons  []pricing.Coupon

	couponDeleted []func(ctx context.Context, code string)
}

// NewService loads the catalog from store, seeding defaults when requested and nothing is stored.
func NewService(ctx context.Context, store storage.BlobStore, notifier notifications.Notifier, logg *logger.Logger, opts Options) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	var seedProducts []pricing.Product
	var seedCoupons []pricing.Coupon
	if opts.SeedDefaults {
		seedProducts = DefaultProducts()
		seedCoupons = DefaultCoupons()
	}

	products, foundProducts, err := storage.LoadJSON(ctx, store, logg, storage.KeyProducts, seedProducts)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	coupons, foundCoupons, err := storage.LoadJSON(ctx, store, logg, storage.KeyCoupons, seedCoupons)
	if err != nil {
		return nil, fmt.Errorf("loading coupons: %w", err)
	}

	if products == nil {
		products = []pricing.Product{}
	}
	if coupons == nil {
		coupons = []pricing.Coupon{}
	}

	newID := opts.NewProductID
	if newID == nil {
		newID = func() string { return "p" + uuid.NewString() }
	}

	svc := &service{
		store:    store,
		notifier: notifier,
		logg:     logg,
		newID:    newID,
		products: products,
		coupons:  coupons,
	}

	if opts.SeedDefaults && (!foundProducts || !foundCoupons) {
		seed := map[string]any{}
		if !foundProducts {
			seed[storage.KeyProducts] = products
		}
		if !foundCoupons {
			seed[storage.KeyCoupons] = coupons
		}
		if err := svc.persist(ctx, seed); err != nil {
			return nil, fmt.Errorf("seeding catalog: %w", err)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"products": len(products), "coupons": len(coupons)}), "catalog seeded with defaults")
	}

	return svc, nil
}

func (s *service) ListProducts(ctx context.Context) []pricing.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// SearchProducts matches term case-insensitively against name and description.
func (s *service) SearchProducts(ctx context.Context, term string) []pricing.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	s.mu.RLock()
	defer s.mu.RUnlock()
	if needle == "" {
		return slices.Clone(s.products)
	}
	out := make([]pricing.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (s *service) GetProduct(ctx context.Context, id string) (pricing.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.productIndex(id)
	if idx < 0 {
		return pricing.Product{}, productNotFound(id)
	}
	return s.products[idx], nil
}

func (s *service) AddProduct(ctx context.Context, input ProductInput) (pricing.Product, error) {
	if err := validateProduct(input); err != nil {
		return pricing.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := input.toProduct(s.newID())
	next := append(slices.Clone(s.products), product)
	if err := s.persist(ctx, map[string]any{storage.KeyProducts: next}); err != nil {
		return pricing.Product{}, err
	}
	s.products = next

	s.notifier.Notify(s.logg.WithProductID(ctx, product.ID), enums.NotificationTypeSuccess, "product added")
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (pricing.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return pricing.Product{}, productNotFound(id)
	}

	merged := patch.apply(inputFromProduct(s.products[idx]))
	if err := validateProduct(merged); err != nil {
		return pricing.Product{}, err
	}

	updated := merged.toProduct(id)
	next := slices.Clone(s.products)
	next[idx] = updated
	if err := s.persist(ctx, map[string]any{storage.KeyProducts: next}); err != nil {
		return pricing.Product{}, err
	}
	s.products = next

	s.notifier.Notify(s.logg.WithProductID(ctx, id), enums.NotificationTypeSuccess, "product updated")
	return updated, nil
}

// DeleteProduct removes the product from the catalog. Cart lines keep their snapshot.
func (s *service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return productNotFound(id)
	}
	next := slices.Delete(slices.Clone(s.products), idx, idx+1)
	if err := s.persist(ctx, map[string]any{storage.KeyProducts: next}); err != nil {
		return err
	}
	s.products = next

	s.notifier.Notify(s.logg.WithProductID(ctx, id), enums.NotificationTypeSuccess, "product deleted")
	return nil
}

func (s *service) ListCoupons(ctx context.Context) []pricing.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.coupons)
}

func (s *service) GetCoupon(ctx context.Context, code string) (pricing.Coupon, error) {
	code = NormalizeCouponCode(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.couponIndex(code)
	if idx < 0 {
		return pricing.Coupon{}, couponNotFound(code)
	}
	return s.coupons[idx], nil
}

func (s *service) AddCoupon(ctx context.Context, input CouponInput) (pricing.Coupon, error) {
	input.Code = NormalizeCouponCode(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	if err := validateCoupon(input); err != nil {
		return pricing.Coupon{}, err
	}

	ctx = s.logg.WithCouponCode(ctx, input.Code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.couponIndex(input.Code) >= 0 {
		s.notifier.Notify(ctx, enums.NotificationTypeError, "coupon code already exists")
		return pricing.Coupon{}, pkgerrors.New(pkgerrors.CodeDuplicateCouponCode, "coupon code already exists").
			WithDetails(map[string]any{"code": input.Code})
	}

	coupon := pricing.Coupon{
		Name:          input.Name,
		Code:          input.Code,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
	}
	next := append(slices.Clone(s.coupons), coupon)
	if err := s.persist(ctx, map[string]any{storage.KeyCoupons: next}); err != nil {
		return pricing.Coupon{}, err
	}
	s.coupons = next

	s.notifier.Notify(ctx, enums.NotificationTypeSuccess, "coupon added")
	return coupon, nil
}

// DeleteCoupon removes the coupon and then informs OnCouponDeleted subscribers.
func (s *service) DeleteCoupon(ctx context.Context, code string) error {
	code = NormalizeCouponCode(code)
	ctx = s.logg.WithCouponCode(ctx, code)

	s.mu.Lock()
	idx := s.couponIndex(code)
	if idx < 0 {
		s.mu.Unlock()
		return couponNotFound(code)
	}
	next := slices.Delete(slices.Clone(s.coupons), idx, idx+1)
	if err := s.persist(ctx, map[string]any{storage.KeyCoupons: next}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.coupons = next
	observers := slices.Clone(s.couponDeleted)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(ctx, code)
	}

	s.notifier.Notify(ctx, enums.NotificationTypeSuccess, "coupon deleted")
	return nil
}

func (s *service) OnCouponDeleted(fn func(ctx context.Context, code string)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.couponDeleted = append(s.couponDeleted, fn)
}

func (s *service) persist(ctx context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for name, v := range values {
		raw, err := storage.Encode(name, v)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding catalog")
		}
		encoded[name] = raw
	}
	if err := s.store.SaveMany(ctx, encoded); err != nil {
		s.logg.Error(ctx, "failed to persist catalog", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting catalog")
	}
	return nil
}

func (s *service) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p pricing.Product) bool { return p.ID == id })
}

func (s *service) couponIndex(code string) int {
	return slices.IndexFunc(s.coupons, func(c pricing.Coupon) bool { return c.Code == code })
}

func productNotFound(id string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"product_id": id})
}

func couponNotFound(code string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found").WithDetails(map[string]any{"code": code})
}
