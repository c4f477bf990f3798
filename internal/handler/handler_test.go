package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier-api/internal/domain/auth"
	"github.com/atelierhq/atelier-api/internal/domain/category"
	"github.com/atelierhq/atelier-api/internal/domain/content"
	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/order"
	"github.com/atelierhq/atelier-api/internal/domain/payment"
	"github.com/atelierhq/atelier-api/internal/domain/product"
	"github.com/atelierhq/atelier-api/internal/domain/review"
)

// --- In-memory fixtures ---

type stubProducts struct {
	byID map[string]product.Product
}

func (s *stubProducts) List(_ context.Context, activeOnly bool) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.byID {
		if !activeOnly || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (s *stubProducts) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) Create(_ context.Context, p *product.Product) error {
	s.byID[p.ID] = *p
	return nil
}

func (s *stubProducts) Update(_ context.Context, p *product.Product) error {
	if _, ok := s.byID[p.ID]; !ok {
		return product.ErrNotFound
	}
	s.byID[p.ID] = *p
	return nil
}

func (s *stubProducts) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type stubCoupons struct {
	byCode map[string]coupon.Coupon
	bound  map[string][]string
}

func (s *stubCoupons) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := s.byCode[coupon.NormalizeCode(code)]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return &c, nil
}

func (s *stubCoupons) ProductIDs(_ context.Context, couponID string) ([]string, error) {
	return s.bound[couponID], nil
}

func (s *stubCoupons) List(_ context.Context) ([]coupon.Coupon, error) {
	var out []coupon.Coupon
	for _, c := range s.byCode {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCoupons) GetByID(_ context.Context, id string) (*coupon.Coupon, error) {
	for _, c := range s.byCode {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, coupon.ErrNotFound
}

func (s *stubCoupons) Create(_ context.Context, c *coupon.Coupon, productIDs []string) error {
	if _, ok := s.byCode[c.Code]; ok {
		return coupon.ErrDuplicateCode
	}
	s.byCode[c.Code] = *c
	s.bound[c.ID] = productIDs
	return nil
}

func (s *stubCoupons) Update(_ context.Context, c *coupon.Coupon, productIDs []string) error {
	s.byCode[c.Code] = *c
	s.bound[c.ID] = productIDs
	return nil
}

func (s *stubCoupons) Delete(_ context.Context, id string) error {
	for code, c := range s.byCode {
		if c.ID == id {
			delete(s.byCode, code)
			return nil
		}
	}
	return coupon.ErrNotFound
}

type stubLedger struct {
	err   error
	calls int
}

func (s *stubLedger) Redeem(context.Context, string, string, string, decimal.Decimal) error {
	s.calls++
	return s.err
}

type stubOrders struct {
	byID map[string]order.Order
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.byID[o.ID] = *o
	return nil
}

func (s *stubOrders) Delete(_ context.Context, id string) error {
	delete(s.byID, id)
	return nil
}

func (s *stubOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

func (s *stubOrders) List(_ context.Context) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.byID {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, id string, status order.Status) error {
	o, ok := s.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	s.byID[id] = o
	return nil
}

type stubCustomers struct{}

func (stubCustomers) HasCompletedPurchase(context.Context, string) (bool, error) { return false, nil }
func (stubCustomers) MarkPurchaseCompleted(context.Context, string) error        { return nil }

type stubPayments struct{ byID map[string]payment.Payment }

func (s *stubPayments) List(context.Context) ([]payment.Payment, error) { return nil, nil }
func (s *stubPayments) ListByOrder(context.Context, string) ([]payment.Payment, error) {
	return nil, nil
}
func (s *stubPayments) Create(_ context.Context, p *payment.Payment) error {
	s.byID[p.ID] = *p
	return nil
}
func (s *stubPayments) Confirm(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return payment.ErrNotFound
	}
	return nil
}
func (s *stubPayments) Fail(context.Context, string) error { return nil }

type stubReviews struct{ items []review.Review }

func (s *stubReviews) ListByProduct(_ context.Context, productID string, approvedOnly bool) ([]review.Review, error) {
	var out []review.Review
	for _, r := range s.items {
		if r.ProductID == productID && (!approvedOnly || r.Approved) {
			out = append(out, r)
		}
	}
	return out, nil
}
func (s *stubReviews) List(context.Context) ([]review.Review, error) { return s.items, nil }
func (s *stubReviews) Create(_ context.Context, r *review.Review) error {
	s.items = append(s.items, *r)
	return nil
}
func (s *stubReviews) Approve(context.Context, string) error { return nil }
func (s *stubReviews) Delete(context.Context, string) error  { return nil }

type stubBlog struct{ posts []content.BlogPost }

func (s *stubBlog) List(_ context.Context, publishedOnly bool) ([]content.BlogPost, error) {
	var out []content.BlogPost
	for _, p := range s.posts {
		if !publishedOnly || p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}
func (s *stubBlog) GetBySlug(_ context.Context, slug string) (*content.BlogPost, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, content.ErrPostNotFound
}
func (s *stubBlog) Create(_ context.Context, p *content.BlogPost) error {
	s.posts = append(s.posts, *p)
	return nil
}
func (s *stubBlog) Update(context.Context, *content.BlogPost) error { return nil }
func (s *stubBlog) Delete(context.Context, string) error            { return nil }

type stubTestimonials struct{ items []content.Testimonial }

func (s *stubTestimonials) List(_ context.Context, publishedOnly bool) ([]content.Testimonial, error) {
	var out []content.Testimonial
	for _, t := range s.items {
		if !publishedOnly || t.Published {
			out = append(out, t)
		}
	}
	return out, nil
}
func (s *stubTestimonials) Create(_ context.Context, t *content.Testimonial) error {
	s.items = append(s.items, *t)
	return nil
}
func (s *stubTestimonials) Update(context.Context, *content.Testimonial) error { return nil }
func (s *stubTestimonials) Delete(context.Context, string) error               { return nil }

type stubAPIKeys struct{ hash string }

func (s *stubAPIKeys) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	if hash != s.hash {
		return nil, errors.New("not found")
	}
	return &auth.APIKeyInfo{ID: "default", KeyHash: s.hash, Name: "test key"}, nil
}

// --- Fixture assembly ---

const (
	testAPIKey = "test-admin-key"
	testPepper = "test-pepper"
)

type fixture struct {
	server  *httptest.Server
	coupons *stubCoupons
	ledger  *stubLedger
	orders  *stubOrders
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	products := &stubProducts{byID: map[string]product.Product{
		"p1": {ID: "p1", Name: "Stoneware Mug", Slug: "stoneware-mug", Price: decimal.NewFromInt(40), Stock: 10, Active: true},
		"p2": {ID: "p2", Name: "Linen Throw", Slug: "linen-throw", Price: decimal.NewFromInt(120), Stock: 3, Active: true},
		"p3": {ID: "p3", Name: "Retired Vase", Slug: "retired-vase", Price: decimal.NewFromInt(80), Stock: 1, Active: false},
	}}
	limit := 5
	coupons := &stubCoupons{
		byCode: map[string]coupon.Coupon{
			"SAVE20": {
				ID: "c1", Code: "SAVE20", DiscountType: coupon.DiscountPercentage,
				Value: decimal.NewFromInt(20), Active: true,
				MinimumOrderAmount: decimal.NewFromInt(50),
			},
			"LIMITED": {
				ID: "c2", Code: "LIMITED", DiscountType: coupon.DiscountFixedAmount,
				Value: decimal.NewFromInt(5), Active: true,
				UsageLimit: &limit, UsageCount: 5,
			},
		},
		bound: map[string][]string{},
	}
	ledger := &stubLedger{}
	orders := &stubOrders{byID: map[string]order.Order{}}
	customers := stubCustomers{}

	validator := coupon.NewRepoValidator(coupons, customers)
	checkout := order.NewService(products, validator, ledger, orders, customers)

	h := NewHandler(Config{
		Products:     products,
		Categories:   &stubCategories{},
		Coupons:      coupons,
		Validator:    validator,
		Orders:       orders,
		Checkout:     checkout,
		Payments:     &stubPayments{byID: map[string]payment.Payment{}},
		Reviews:      &stubReviews{},
		Blog:         &stubBlog{posts: []content.BlogPost{{ID: "b1", Title: "Hello", Slug: "hello", Published: true}}},
		Testimonials: &stubTestimonials{},
	})

	apikeys := &stubAPIKeys{hash: HashAPIKey(testAPIKey, []byte(testPepper))}
	srv := httptest.NewServer(h.Routes(APIKeyAuth(apikeys, []byte(testPepper))))
	t.Cleanup(srv.Close)

	return &fixture{server: srv, coupons: coupons, ledger: ledger, orders: orders}
}

type stubCategories struct{}

func (stubCategories) List(context.Context) ([]category.Category, error) {
	return []category.Category{{ID: "cat1", Name: "Ceramics", Slug: "ceramics"}}, nil
}
func (stubCategories) GetByID(context.Context, string) (*category.Category, error) {
	return nil, category.ErrNotFound
}
func (stubCategories) Create(context.Context, *category.Category) error { return nil }
func (stubCategories) Update(context.Context, *category.Category) error { return nil }
func (stubCategories) Delete(context.Context, string) error             { return nil }

func (f *fixture) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func withAPIKey(key string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(APIKeyHeader, key)
	}
}

// --- Storefront ---

func TestListProducts_HidesInactive(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []productResponse
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Len(t, products, 2)
	for _, p := range products {
		assert.True(t, p.Active)
	}
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/products/p1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p productResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "stoneware-mug", p.Slug)
	assert.Equal(t, 40.0, p.Price)

	resp, _ = f.do(t, http.MethodGet, "/api/products/p3", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetBlogPost(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/blog/hello", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/blog/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateCoupon(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name        string
		req         validateCouponRequest
		wantValid   bool
		wantAmount  float64
		wantMessage string
	}{
		{
			name: "valid coupon",
			req: validateCouponRequest{
				Code:          "save20",
				CustomerEmail: "buyer@example.com",
				Items:         []cartItemRequest{{ProductID: "p2", Quantity: 1}},
			},
			wantValid:   true,
			wantAmount:  24,
			wantMessage: "Coupon applied: 20% OFF",
		},
		{
			name: "unknown coupon",
			req: validateCouponRequest{
				Code:          "BOGUS",
				CustomerEmail: "buyer@example.com",
				Items:         []cartItemRequest{{ProductID: "p2", Quantity: 1}},
			},
			wantMessage: "Invalid coupon code",
		},
		{
			name: "below minimum",
			req: validateCouponRequest{
				Code:          "SAVE20",
				CustomerEmail: "buyer@example.com",
				Items:         []cartItemRequest{{ProductID: "p1", Quantity: 1}},
			},
			wantMessage: "A minimum order of $50.00 is required to use this coupon",
		},
		{
			name: "exhausted",
			req: validateCouponRequest{
				Code:          "LIMITED",
				CustomerEmail: "buyer@example.com",
				Items:         []cartItemRequest{{ProductID: "p2", Quantity: 1}},
			},
			wantMessage: "This coupon has reached its usage limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodPost, "/api/coupons/validate", tt.req)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got validateCouponResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantAmount, got.DiscountAmount)
		})
	}
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    "SAVE20",
		Items: []cartItemRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	var got orderResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 160.0, got.Subtotal)
	assert.Equal(t, 32.0, got.Discount)
	assert.Equal(t, 128.0, got.Total)
	assert.Equal(t, "SAVE20", got.CouponCode)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, 1, f.ledger.calls)
	assert.Len(t, f.orders.byID, 1)
}

func TestCheckout_CouponRejected(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		CustomerEmail: "buyer@example.com",
		CouponCode:    "LIMITED",
		Items:         []cartItemRequest{{ProductID: "p2", Quantity: 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var got errorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "This coupon has reached its usage limit", got.Message)
	assert.Empty(t, f.orders.byID)
}

func TestCheckout_InputErrors(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []cartItemRequest{{ProductID: "nope", Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		CustomerEmail: "bad-email",
		Items:         []cartItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/checkout", checkoutRequest{
		CustomerEmail: "buyer@example.com",
		Items:         []cartItemRequest{{ProductID: "p2", Quantity: 50}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// --- Admin auth ---

func TestAdminRequiresAPIKey(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/admin/coupons", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/admin/coupons", nil, withAPIKey("wrong-key"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/admin/coupons", nil, withAPIKey(testAPIKey))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminCreateCoupon(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/admin/coupons", couponRequest{
		Code:         "welcome15",
		DiscountType: "percentage",
		Value:        15,
		Active:       true,
	}, withAPIKey(testAPIKey))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	var got couponResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "WELCOME15", got.Code)
	assert.Equal(t, "15% OFF", got.Label)

	// Same normalized code again conflicts.
	resp, _ = f.do(t, http.MethodPost, "/api/admin/coupons", couponRequest{
		Code:         "WELCOME15",
		DiscountType: "percentage",
		Value:        15,
		Active:       true,
	}, withAPIKey(testAPIKey))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminCreateCoupon_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  couponRequest
	}{
		{"missing code", couponRequest{DiscountType: "percentage", Value: 10}},
		{"bad type", couponRequest{Code: "X123", DiscountType: "bogus", Value: 10}},
		{"percentage over 100", couponRequest{Code: "X123", DiscountType: "percentage", Value: 150}},
		{"product specific without products", couponRequest{
			Code: "X123", DiscountType: "percentage", Value: 10,
			ProductSpecific: true, InclusionType: "include",
		}},
		{"product specific bad inclusion", couponRequest{
			Code: "X123", DiscountType: "percentage", Value: 10,
			ProductSpecific: true, InclusionType: "sometimes", ProductIDs: []string{"p1"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := f.do(t, http.MethodPost, "/api/admin/coupons", tt.req, withAPIKey(testAPIKey))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAdminOrderStatus(t *testing.T) {
	f := newFixture(t)
	f.orders.byID["o1"] = order.Order{ID: "o1", Status: order.StatusPending}

	resp, _ := f.do(t, http.MethodPut, "/api/admin/orders/o1/status",
		updateOrderStatusRequest{Status: "shipped"}, withAPIKey(testAPIKey))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, order.StatusShipped, f.orders.byID["o1"].Status)

	resp, _ = f.do(t, http.MethodPut, "/api/admin/orders/o1/status",
		updateOrderStatusRequest{Status: "teleported"}, withAPIKey(testAPIKey))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/admin/orders/nope/status",
		updateOrderStatusRequest{Status: "shipped"}, withAPIKey(testAPIKey))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
