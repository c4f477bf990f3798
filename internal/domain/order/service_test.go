package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/product"
)

type mockProductRepo struct {
	products map[string]product.Product
	err      error
}

func (m *mockProductRepo) List(context.Context, bool) ([]product.Product, error) { return nil, nil }
func (m *mockProductRepo) GetByID(context.Context, string) (*product.Product, error) {
	return nil, product.ErrNotFound
}
func (m *mockProductRepo) Create(context.Context, *product.Product) error { return nil }
func (m *mockProductRepo) Update(context.Context, *product.Product) error { return nil }
func (m *mockProductRepo) Delete(context.Context, string) error           { return nil }

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockValidator struct {
	result *coupon.Result
	err    error

	gotCode  string
	gotEmail string
}

func (m *mockValidator) Validate(_ context.Context, code, email string, _ []coupon.Item) (*coupon.Result, error) {
	m.gotCode = code
	m.gotEmail = email
	return m.result, m.err
}

type mockLedger struct {
	err error

	gotCouponID string
	gotOrderID  string
	gotAmount   decimal.Decimal
	calls       int
}

func (m *mockLedger) Redeem(_ context.Context, couponID, orderID, _ string, amount decimal.Decimal) error {
	m.calls++
	m.gotCouponID = couponID
	m.gotOrderID = orderID
	m.gotAmount = amount
	return m.err
}

type mockOrderRepo struct {
	createErr error
	deleteErr error

	created *Order
	deleted []string
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = o
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockOrderRepo) GetByID(context.Context, string) (*Order, error) { return nil, ErrNotFound }
func (m *mockOrderRepo) List(context.Context) ([]Order, error)           { return nil, nil }
func (m *mockOrderRepo) UpdateStatus(context.Context, string, Status) error {
	return nil
}

type mockCustomerRepo struct {
	completed bool
	markErr   error
	marked    []string
}

func (m *mockCustomerRepo) HasCompletedPurchase(context.Context, string) (bool, error) {
	return m.completed, nil
}

func (m *mockCustomerRepo) MarkPurchaseCompleted(_ context.Context, email string) error {
	m.marked = append(m.marked, email)
	return m.markErr
}

func catalog() map[string]product.Product {
	return map[string]product.Product{
		"p1": {ID: "p1", Name: "Stoneware Mug", Price: decimal.NewFromInt(40), Stock: 10, Active: true},
		"p2": {ID: "p2", Name: "Linen Throw", Price: decimal.NewFromInt(120), Stock: 2, Active: true},
		"p3": {ID: "p3", Name: "Retired Vase", Price: decimal.NewFromInt(80), Stock: 5, Active: false},
	}
}

func newTestService(products *mockProductRepo, v *mockValidator, l *mockLedger, o *mockOrderRepo, c *mockCustomerRepo) *Service {
	return NewService(products, v, l, o, c)
}

func TestPlaceOrder_NoCoupon(t *testing.T) {
	orders := &mockOrderRepo{}
	customers := &mockCustomerRepo{}
	svc := newTestService(&mockProductRepo{products: catalog()}, &mockValidator{}, &mockLedger{}, orders, customers)

	got, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "Buyer@Example.com ",
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "buyer@example.com", got.CustomerEmail)
	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.Discount.IsZero())
	assert.True(t, got.Total.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, PaymentUnpaid, got.PaymentStatus)
	require.NotNil(t, orders.created)
	assert.Equal(t, []string{"buyer@example.com"}, customers.marked)
}

func TestPlaceOrder_InputValidation(t *testing.T) {
	svc := newTestService(&mockProductRepo{products: catalog()}, &mockValidator{}, &mockLedger{}, &mockOrderRepo{}, &mockCustomerRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "not-an-email",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrEmptyItems)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 0}},
	})
	var badQty *InvalidQuantityError
	assert.ErrorAs(t, err, &badQty)
}

func TestPlaceOrder_ProductChecks(t *testing.T) {
	svc := newTestService(&mockProductRepo{products: catalog()}, &mockValidator{}, &mockLedger{}, &mockOrderRepo{}, &mockCustomerRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []OrderItem{{ProductID: "missing", Quantity: 1}},
	})
	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)

	// Inactive products are invisible to checkout.
	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []OrderItem{{ProductID: "p3", Quantity: 1}},
	})
	require.ErrorAs(t, err, &notFound)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []OrderItem{{ProductID: "p2", Quantity: 5}},
	})
	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "p2", noStock.ProductID)
}

func TestPlaceOrder_CouponApplied(t *testing.T) {
	validator := &mockValidator{result: &coupon.Result{
		Valid:          true,
		DiscountAmount: decimal.NewFromInt(16),
		Message:        "Coupon applied: 20% OFF",
		CouponID:       "c1",
	}}
	ledger := &mockLedger{}
	orders := &mockOrderRepo{}
	svc := newTestService(&mockProductRepo{products: catalog()}, validator, ledger, orders, &mockCustomerRepo{})

	got, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    " save20 ",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Equal(t, "SAVE20", validator.gotCode)
	assert.Equal(t, "buyer@example.com", validator.gotEmail)
	assert.True(t, got.Discount.Equal(decimal.NewFromInt(16)))
	assert.True(t, got.Total.Equal(decimal.NewFromInt(64)))
	assert.Equal(t, "c1", got.CouponID)
	assert.Equal(t, 1, ledger.calls)
	assert.Equal(t, got.ID, ledger.gotOrderID)
	assert.True(t, ledger.gotAmount.Equal(decimal.NewFromInt(16)))
	assert.Empty(t, orders.deleted)
}

func TestPlaceOrder_CouponRejected(t *testing.T) {
	validator := &mockValidator{result: &coupon.Result{
		Valid:   false,
		Message: "This coupon has expired",
	}}
	orders := &mockOrderRepo{}
	ledger := &mockLedger{}
	svc := newTestService(&mockProductRepo{products: catalog()}, validator, ledger, orders, &mockCustomerRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    "OLD",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 1}},
	})

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "This coupon has expired", rejected.Message)
	assert.Nil(t, orders.created)
	assert.Zero(t, ledger.calls)
}

func TestPlaceOrder_CouponStoreDown(t *testing.T) {
	validator := &mockValidator{err: errors.New("connection refused")}
	svc := newTestService(&mockProductRepo{products: catalog()}, validator, &mockLedger{}, &mockOrderRepo{}, &mockCustomerRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    "SAVE20",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 1}},
	})

	var unavailable *CouponUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorContains(t, unavailable.Err, "connection refused")
}

func TestPlaceOrder_RedemptionRaceLossRollsBack(t *testing.T) {
	validator := &mockValidator{result: &coupon.Result{
		Valid:          true,
		DiscountAmount: decimal.NewFromInt(8),
		CouponID:       "c1",
	}}
	ledger := &mockLedger{err: coupon.ErrUsageLimitReached}
	orders := &mockOrderRepo{}
	svc := newTestService(&mockProductRepo{products: catalog()}, validator, ledger, orders, &mockCustomerRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    "LIMITED",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 1}},
	})

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "This coupon has reached its usage limit", rejected.Message)
	require.NotNil(t, orders.created)
	assert.Equal(t, []string{orders.created.ID}, orders.deleted)
}

func TestPlaceOrder_RedemptionInfraFailureRollsBack(t *testing.T) {
	validator := &mockValidator{result: &coupon.Result{
		Valid:          true,
		DiscountAmount: decimal.NewFromInt(8),
		CouponID:       "c1",
	}}
	ledger := &mockLedger{err: errors.New("write timeout")}
	orders := &mockOrderRepo{}
	svc := newTestService(&mockProductRepo{products: catalog()}, validator, ledger, orders, &mockCustomerRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    "SAVE20",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "record redemption")
	assert.Equal(t, []string{orders.created.ID}, orders.deleted)
}

func TestPlaceOrder_MarkPurchaseFailureIsNonFatal(t *testing.T) {
	customers := &mockCustomerRepo{markErr: errors.New("upsert failed")}
	svc := newTestService(&mockProductRepo{products: catalog()}, &mockValidator{}, &mockLedger{}, &mockOrderRepo{}, customers)

	got, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []OrderItem{{ProductID: "p1", Quantity: 1}},
	})

	require.NoError(t, err)
	require.NotNil(t, got)
}
