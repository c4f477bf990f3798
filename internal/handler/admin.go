package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-api/internal/domain/category"
	"github.com/atelierhq/atelier-api/internal/domain/content"
	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/order"
	"github.com/atelierhq/atelier-api/internal/domain/payment"
	"github.com/atelierhq/atelier-api/internal/domain/product"
)

// --- Products ---

type productRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"active"`
}

func (req *productRequest) validate() (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required", false
	}
	if strings.TrimSpace(req.Slug) == "" {
		return "slug is required", false
	}
	if req.Price < 0 {
		return "price must not be negative", false
	}
	if req.Stock < 0 {
		return "stock must not be negative", false
	}
	return "", true
}

func (h *Handler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), false)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	p := product.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: req.Description,
		Price:       decimal.NewFromFloat(req.Price),
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	p := product.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: req.Description,
		Price:       decimal.NewFromFloat(req.Price),
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := h.products.Update(r.Context(), &p); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Categories ---

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *Handler) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		respondError(w, http.StatusBadRequest, "name and slug are required")
		return
	}

	c := category.Category{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: req.Description,
	}
	if err := h.categories.Create(r.Context(), &c); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description})
}

func (h *Handler) adminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		respondError(w, http.StatusBadRequest, "name and slug are required")
		return
	}

	c := category.Category{
		ID:          chi.URLParam(r, "id"),
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: req.Description,
	}
	if err := h.categories.Update(r.Context(), &c); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description})
}

func (h *Handler) adminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Coupons ---

type couponRequest struct {
	Code               string     `json:"code"`
	Description        string     `json:"description"`
	DiscountType       string     `json:"discountType"`
	Value              float64    `json:"value"`
	MinimumOrderAmount float64    `json:"minimumOrderAmount"`
	UsageLimit         *int       `json:"usageLimit"`
	FirstTimeOnly      bool       `json:"firstTimeOnly"`
	Active             bool       `json:"active"`
	StartsAt           *time.Time `json:"startsAt"`
	ExpiresAt          *time.Time `json:"expiresAt"`
	ProductSpecific    bool       `json:"productSpecific"`
	InclusionType      string     `json:"inclusionType"`
	ProductIDs         []string   `json:"productIds"`
}

func (req *couponRequest) validate() (string, bool) {
	if coupon.NormalizeCode(req.Code) == "" {
		return "code is required", false
	}
	switch coupon.DiscountType(req.DiscountType) {
	case coupon.DiscountPercentage:
		if req.Value <= 0 || req.Value > 100 {
			return "percentage value must be between 0 and 100", false
		}
	case coupon.DiscountFixedAmount:
		if req.Value <= 0 {
			return "fixed amount value must be positive", false
		}
	case coupon.DiscountFreeShipping:
		// Value is ignored.
	default:
		return "discountType must be percentage, fixed_amount or free_shipping", false
	}
	if req.MinimumOrderAmount < 0 {
		return "minimumOrderAmount must not be negative", false
	}
	if req.UsageLimit != nil && *req.UsageLimit < 1 {
		return "usageLimit must be at least 1", false
	}
	if req.StartsAt != nil && req.ExpiresAt != nil && !req.ExpiresAt.After(*req.StartsAt) {
		return "expiresAt must be after startsAt", false
	}
	if req.ProductSpecific {
		if len(req.ProductIDs) == 0 {
			return "productIds are required for product-specific coupons", false
		}
		switch coupon.InclusionType(req.InclusionType) {
		case coupon.InclusionInclude, coupon.InclusionExclude:
		default:
			return "inclusionType must be include or exclude", false
		}
	}
	return "", true
}

func (req *couponRequest) toCoupon(id string) *coupon.Coupon {
	inclusion := coupon.InclusionType(req.InclusionType)
	if !req.ProductSpecific {
		inclusion = coupon.InclusionInclude
	}
	return &coupon.Coupon{
		ID:                 id,
		Code:               coupon.NormalizeCode(req.Code),
		Description:        req.Description,
		DiscountType:       coupon.DiscountType(req.DiscountType),
		Value:              decimal.NewFromFloat(req.Value),
		MinimumOrderAmount: decimal.NewFromFloat(req.MinimumOrderAmount),
		UsageLimit:         req.UsageLimit,
		FirstTimeOnly:      req.FirstTimeOnly,
		Active:             req.Active,
		StartsAt:           req.StartsAt,
		ExpiresAt:          req.ExpiresAt,
		ProductSpecific:    req.ProductSpecific,
		InclusionType:      inclusion,
	}
}

type couponResponse struct {
	ID                 string     `json:"id"`
	Code               string     `json:"code"`
	Description        string     `json:"description,omitempty"`
	DiscountType       string     `json:"discountType"`
	Value              float64    `json:"value"`
	Label              string     `json:"label"`
	MinimumOrderAmount float64    `json:"minimumOrderAmount"`
	UsageLimit         *int       `json:"usageLimit,omitempty"`
	UsageCount         int        `json:"usageCount"`
	FirstTimeOnly      bool       `json:"firstTimeOnly"`
	Active             bool       `json:"active"`
	StartsAt           *time.Time `json:"startsAt,omitempty"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	ProductSpecific    bool       `json:"productSpecific"`
	InclusionType      string     `json:"inclusionType,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func toCouponResponse(c coupon.Coupon) couponResponse {
	out := couponResponse{
		ID:                 c.ID,
		Code:               c.Code,
		Description:        c.Description,
		DiscountType:       string(c.DiscountType),
		Value:              money(c.Value),
		Label:              coupon.FormatLabel(c.DiscountType, c.Value),
		MinimumOrderAmount: money(c.MinimumOrderAmount),
		UsageLimit:         c.UsageLimit,
		UsageCount:         c.UsageCount,
		FirstTimeOnly:      c.FirstTimeOnly,
		Active:             c.Active,
		StartsAt:           c.StartsAt,
		ExpiresAt:          c.ExpiresAt,
		ProductSpecific:    c.ProductSpecific,
		CreatedAt:          c.CreatedAt,
	}
	if c.ProductSpecific {
		out.InclusionType = string(c.InclusionType)
	}
	return out
}

func (h *Handler) adminListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]couponResponse, len(coupons))
	for i, c := range coupons {
		out[i] = toCouponResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminGetCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.coupons.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCouponResponse(*c))
}

func (h *Handler) adminCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	c := req.toCoupon(uuid.New().String())
	if err := h.coupons.Create(r.Context(), c, req.ProductIDs); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCouponResponse(*c))
}

func (h *Handler) adminUpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	c := req.toCoupon(chi.URLParam(r, "id"))
	if err := h.coupons.Update(r.Context(), c, req.ProductIDs); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCouponResponse(*c))
}

func (h *Handler) adminDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch order.Status(req.Status) {
	case order.StatusPending, order.StatusProcessing, order.StatusShipped,
		order.StatusDelivered, order.StatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.Status)); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Payments ---

type paymentResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPaymentResponse(p payment.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    money(p.Amount),
		Method:    p.Method,
		Reference: p.Reference,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func (h *Handler) adminListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]paymentResponse, len(payments))
	for i, p := range payments {
		out[i] = toPaymentResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminListOrderPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListByOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]paymentResponse, len(payments))
	for i, p := range payments {
		out[i] = toPaymentResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

type createPaymentRequest struct {
	OrderID   string  `json:"orderId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

func (h *Handler) adminCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "orderId is required")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	// The payment must reference an existing order.
	if _, err := h.orders.GetByID(r.Context(), req.OrderID); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	p := payment.Payment{
		ID:        uuid.New().String(),
		OrderID:   req.OrderID,
		Amount:    decimal.NewFromFloat(req.Amount).Round(2),
		Method:    req.Method,
		Reference: req.Reference,
		Status:    payment.StatusPending,
	}
	if err := h.payments.Create(r.Context(), &p); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (h *Handler) adminConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Confirm(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminFailPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Fail(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Reviews ---

func (h *Handler) adminListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = toReviewResponse(rv)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminApproveReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Approve(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Blog ---

type blogPostRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (h *Handler) adminListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context(), false)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]blogPostResponse, len(posts))
	for i, p := range posts {
		out[i] = toBlogPostResponse(p, false)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req blogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Slug) == "" {
		respondError(w, http.StatusBadRequest, "title and slug are required")
		return
	}

	p := content.BlogPost{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(req.Title),
		Slug:      strings.TrimSpace(req.Slug),
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	}
	if err := h.blog.Create(r.Context(), &p); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBlogPostResponse(p, true))
}

func (h *Handler) adminUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req blogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Slug) == "" {
		respondError(w, http.StatusBadRequest, "title and slug are required")
		return
	}

	p := content.BlogPost{
		ID:        chi.URLParam(r, "id"),
		Title:     strings.TrimSpace(req.Title),
		Slug:      strings.TrimSpace(req.Slug),
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	}
	if err := h.blog.Update(r.Context(), &p); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBlogPostResponse(p, true))
}

func (h *Handler) adminDeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Testimonials ---

type testimonialRequest struct {
	Author    string `json:"author"`
	Quote     string `json:"quote"`
	Rating    int    `json:"rating"`
	Published bool   `json:"published"`
}

type adminTestimonialResponse struct {
	testimonialResponse
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAdminTestimonialResponse(t content.Testimonial) adminTestimonialResponse {
	return adminTestimonialResponse{
		testimonialResponse: testimonialResponse{ID: t.ID, Author: t.Author, Quote: t.Quote, Rating: t.Rating},
		Published:           t.Published,
		CreatedAt:           t.CreatedAt,
	}
}

func (h *Handler) adminListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.testimonials.List(r.Context(), false)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]adminTestimonialResponse, len(testimonials))
	for i, t := range testimonials {
		out[i] = toAdminTestimonialResponse(t)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) adminCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.Quote) == "" {
		respondError(w, http.StatusBadRequest, "author and quote are required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	t := content.Testimonial{
		ID:        uuid.New().String(),
		Author:    strings.TrimSpace(req.Author),
		Quote:     strings.TrimSpace(req.Quote),
		Rating:    req.Rating,
		Published: req.Published,
	}
	if err := h.testimonials.Create(r.Context(), &t); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAdminTestimonialResponse(t))
}

func (h *Handler) adminUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.Quote) == "" {
		respondError(w, http.StatusBadRequest, "author and quote are required")
		return
	}

	t := content.Testimonial{
		ID:        chi.URLParam(r, "id"),
		Author:    strings.TrimSpace(req.Author),
		Quote:     strings.TrimSpace(req.Quote),
		Rating:    req.Rating,
		Published: req.Published,
	}
	if err := h.testimonials.Update(r.Context(), &t); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAdminTestimonialResponse(t))
}

func (h *Handler) adminDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.testimonials.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
