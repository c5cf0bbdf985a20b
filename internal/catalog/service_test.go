package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopcart-backend/internal/notifications/notificationstest"
	"github.com/angelmondragon/shopcart-backend/internal/storage"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/pricing"
)

func newTestService(t *testing.T, store storage.BlobStore) (Service, *notificationstest.Recorder) {
	t.Helper()
	rec := &notificationstest.Recorder{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	ids := 0
	svc, err := NewService(context.Background(), store, rec, logg, Options{
		SeedDefaults: true,
		NewProductID: func() string {
			ids++
			return fmt.Sprintf("p-new-%d", ids)
		},
	})
	require.NoError(t, err)
	return svc, rec
}

func ptr[T any](v T) *T { return &v }

func TestNewServiceSeedsDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newTestService(t, store)

	products := svc.ListProducts(context.Background())
	require.Len(t, products, 3)
	assert.Equal(t, "p1", products[0].ID)
	assert.True(t, products[1].IsRecommended)

	coupons := svc.ListCoupons(context.Background())
	require.Len(t, coupons, 2)
	assert.Equal(t, "AMOUNT5000", coupons[0].Code)

	_, err := store.Load(context.Background(), storage.KeyProducts)
	require.NoError(t, err)
	_, err = store.Load(context.Background(), storage.KeyCoupons)
	require.NoError(t, err)
}

func TestNewServiceKeepsStoredCatalog(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, storage.SaveJSON(ctx, store, storage.KeyProducts, []pricing.Product{{ID: "only", Name: "Only", Price: 1, Stock: 1}}))
	require.NoError(t, store.Save(ctx, storage.KeyCoupons, []byte("garbage")))

	svc, _ := newTestService(t, store)
	products := svc.ListProducts(ctx)
	require.Len(t, products, 1)
	assert.Equal(t, "only", products[0].ID)
	assert.Len(t, svc.ListCoupons(ctx), 2)
}

func TestNewServiceWithoutSeedStartsEmpty(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(context.Background(), storage.NewMemoryStore(), &notificationstest.Recorder{}, logg, Options{})
	require.NoError(t, err)
	assert.NotNil(t, svc.ListProducts(context.Background()))
	assert.Empty(t, svc.ListProducts(context.Background()))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	_, err := NewService(context.Background(), nil, &notificationstest.Recorder{}, logg, Options{})
	assert.Error(t, err)
	_, err = NewService(context.Background(), storage.NewMemoryStore(), nil, logg, Options{})
	assert.Error(t, err)
}

func TestSearchProducts(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	assert.Len(t, svc.SearchProducts(ctx, ""), 3)
	assert.Len(t, svc.SearchProducts(ctx, "   "), 3)

	got := svc.SearchProducts(ctx, "PRODUCT 2")
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	got = svc.SearchProducts(ctx, "performance")
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)

	assert.Empty(t, svc.SearchProducts(ctx, "nothing matches"))
}

func TestAddUpdateDeleteProduct(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc, rec := newTestService(t, store)

	created, err := svc.AddProduct(ctx, ProductInput{
		Name:  "  Widget ",
		Price: 5000,
		Stock: 5,
		Discounts: []DiscountTierInput{
			{Quantity: 3, Rate: decimal.RequireFromString("0.05")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "p-new-1", created.ID)
	assert.Equal(t, "Widget", created.Name)
	last, _ := rec.Last()
	assert.Equal(t, enums.NotificationTypeSuccess, last.Type)

	updated, err := svc.UpdateProduct(ctx, created.ID, ProductPatch{Price: ptr(int64(0)), Stock: ptr(9999)})
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated.Price)
	assert.Equal(t, 9999, updated.Stock)
	assert.Equal(t, "Widget", updated.Name)
	require.Len(t, updated.Discounts, 1)

	reloaded, _, err := storage.LoadJSON[[]pricing.Product](ctx, store, nil, storage.KeyProducts, nil)
	require.NoError(t, err)
	require.Len(t, reloaded, 4)
	assert.Equal(t, 9999, reloaded[3].Stock)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.Is(svc.DeleteProduct(ctx, created.ID), pkgerrors.CodeNotFound))
}

func TestProductValidation(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	cases := map[string]ProductInput{
		"missing name":   {Price: 1, Stock: 1},
		"negative price": {Name: "x", Price: -1, Stock: 1},
		"stock too high": {Name: "x", Price: 1, Stock: 10000},
		"zero tier qty":  {Name: "x", Price: 1, Stock: 1, Discounts: []DiscountTierInput{{Quantity: 0, Rate: decimal.RequireFromString("0.1")}}},
		"rate above one": {Name: "x", Price: 1, Stock: 1, Discounts: []DiscountTierInput{{Quantity: 1, Rate: decimal.RequireFromString("1.5")}}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddProduct(ctx, input)
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
	assert.Len(t, svc.ListProducts(ctx), 3)

	_, err := svc.UpdateProduct(ctx, "p1", ProductPatch{Stock: ptr(-1)})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	p1, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 20, p1.Stock)

	_, err = svc.UpdateProduct(ctx, "missing", ProductPatch{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestProductAcceptsTiersSharingAQuantity(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, ProductInput{Name: "x", Price: 1000, Stock: 5, Discounts: []DiscountTierInput{
		{Quantity: 2, Rate: decimal.RequireFromString("0.1")},
		{Quantity: 2, Rate: decimal.RequireFromString("0.2")},
	}})
	require.NoError(t, err)
	require.Len(t, created.Discounts, 2)

	rate := pricing.BaseDiscount(pricing.CartItem{Product: created, Quantity: 2})
	assert.True(t, rate.Equal(decimal.RequireFromString("0.2")), "got %s", rate)
}

func TestAddCoupon(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t, storage.NewMemoryStore())

	coupon, err := svc.AddCoupon(ctx, CouponInput{Name: "Half", Code: " half50 ", DiscountType: enums.DiscountTypePercentage, DiscountValue: 50})
	require.NoError(t, err)
	assert.Equal(t, "HALF50", coupon.Code)

	got, err := svc.GetCoupon(ctx, "half50")
	require.NoError(t, err)
	assert.Equal(t, coupon, got)

	_, err = svc.AddCoupon(ctx, CouponInput{Name: "Again", Code: "PERCENT10", DiscountType: enums.DiscountTypeAmount, DiscountValue: 1})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicateCouponCode))
	last, _ := rec.Last()
	assert.Equal(t, enums.NotificationTypeError, last.Type)
	assert.Len(t, svc.ListCoupons(ctx), 3)
}

func TestCouponValidation(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	cases := map[string]CouponInput{
		"percentage above 100": {Name: "n", Code: "A", DiscountType: enums.DiscountTypePercentage, DiscountValue: 101},
		"amount above cap":     {Name: "n", Code: "B", DiscountType: enums.DiscountTypeAmount, DiscountValue: 100001},
		"unknown type":         {Name: "n", Code: "C", DiscountType: "bogus", DiscountValue: 1},
		"negative value":       {Name: "n", Code: "D", DiscountType: enums.DiscountTypeAmount, DiscountValue: -1},
		"missing code":         {Name: "n", DiscountType: enums.DiscountTypeAmount, DiscountValue: 1},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddCoupon(ctx, input)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}

	_, err := svc.AddCoupon(ctx, CouponInput{Name: "max", Code: "MAX", DiscountType: enums.DiscountTypeAmount, DiscountValue: 100000})
	assert.NoError(t, err)
}

func TestDeleteCouponNotifiesObservers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, storage.NewMemoryStore())

	var deleted []string
	svc.OnCouponDeleted(func(_ context.Context, code string) { deleted = append(deleted, code) })

	require.NoError(t, svc.DeleteCoupon(ctx, "percent10"))
	assert.Equal(t, []string{"PERCENT10"}, deleted)
	assert.Len(t, svc.ListCoupons(ctx), 1)

	err := svc.DeleteCoupon(ctx, "PERCENT10")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Len(t, deleted, 1)
}

type failingStore struct {
	*storage.MemoryStore
	fail bool
}

func (f *failingStore) SaveMany(ctx context.Context, values map[string][]byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.SaveMany(ctx, values)
}

func TestPersistFailureLeavesCatalogUnchanged(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: storage.NewMemoryStore()}
	svc, _ := newTestService(t, store)
	store.fail = true

	_, err := svc.AddProduct(ctx, ProductInput{Name: "x", Price: 1, Stock: 1})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
	assert.Len(t, svc.ListProducts(ctx), 3)

	err = svc.DeleteCoupon(ctx, "AMOUNT5000")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
	assert.Len(t, svc.ListCoupons(ctx), 2)
}
