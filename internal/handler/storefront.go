package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-api/internal/domain/content"
	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/order"
	"github.com/atelierhq/atelier-api/internal/domain/product"
	"github.com/atelierhq/atelier-api/internal/domain/review"
)

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"categoryId,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       money(p.Price),
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

// money renders a decimal amount for JSON at two decimal places.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), true)
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

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	if !p.Active {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
	}
	respondJSON(w, http.StatusOK, out)
}

type reviewResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	CustomerName string    `json:"customerName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toReviewResponse(rv review.Review) reviewResponse {
	return reviewResponse{
		ID:           rv.ID,
		ProductID:    rv.ProductID,
		CustomerName: rv.CustomerName,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		Approved:     rv.Approved,
		CreatedAt:    rv.CreatedAt,
	}
}

func (h *Handler) listProductReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByProduct(r.Context(), chi.URLParam(r, "id"), true)
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

type createReviewRequest struct {
	ProductID    string `json:"productId"`
	CustomerName string `json:"customerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		respondError(w, http.StatusBadRequest, "customerName is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	// Reject reviews for products that do not exist or are hidden.
	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	if !p.Active {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	rv := review.Review{
		ID:           uuid.New().String(),
		ProductID:    req.ProductID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
	}
	if err := h.reviews.Create(r.Context(), &rv); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReviewResponse(rv))
}

type blogPostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Body      string    `json:"body,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBlogPostResponse(p content.BlogPost, includeBody bool) blogPostResponse {
	out := blogPostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
	}
	if includeBody {
		out.Body = p.Body
	}
	return out
}

func (h *Handler) listBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context(), true)
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

func (h *Handler) getBlogPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	if !p.Published {
		respondError(w, http.StatusNotFound, "blog post not found")
		return
	}
	respondJSON(w, http.StatusOK, toBlogPostResponse(*p, true))
}

type testimonialResponse struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

func (h *Handler) listTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.testimonials.List(r.Context(), true)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	out := make([]testimonialResponse, len(testimonials))
	for i, t := range testimonials {
		out[i] = testimonialResponse{ID: t.ID, Author: t.Author, Quote: t.Quote, Rating: t.Rating}
	}
	respondJSON(w, http.StatusOK, out)
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type validateCouponRequest struct {
	Code          string            `json:"code"`
	CustomerEmail string            `json:"customerEmail"`
	Items         []cartItemRequest `json:"items"`
}

type validateCouponResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount"`
	Message        string  `json:"message"`
}

// validateCoupon prices the cart at live catalog prices and runs the coupon
// eligibility checks. Rule rejections come back as 200 with valid=false;
// only infrastructure failures produce an error status.
func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.priceCart(r, req.Items)
	if err != nil {
		var notFound *order.ProductNotFoundError
		if errors.As(err, &notFound) {
			respondError(w, http.StatusNotFound, notFound.Error())
			return
		}
		h.respondStoreError(w, r, err)
		return
	}

	res, err := h.validator.Validate(r.Context(), req.Code, strings.ToLower(strings.TrimSpace(req.CustomerEmail)), items)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, validateCouponResponse{
		Valid:          res.Valid,
		DiscountAmount: money(res.DiscountAmount),
		Message:        res.Message,
	})
}

// priceCart resolves cart lines against the live catalog.
func (h *Handler) priceCart(r *http.Request, lines []cartItemRequest) ([]coupon.Item, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	products, err := h.products.GetByIDs(r.Context(), ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]coupon.Item, len(lines))
	for i, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok || !p.Active {
			return nil, &order.ProductNotFoundError{ProductID: line.ProductID}
		}
		items[i] = coupon.Item{ProductID: p.ID, Price: p.Price, Quantity: line.Quantity}
	}
	return items, nil
}

type checkoutRequest struct {
	CustomerEmail string            `json:"customerEmail"`
	CouponCode    string            `json:"couponCode"`
	Items         []cartItemRequest `json:"items"`
}

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	CustomerEmail string              `json:"customerEmail"`
	Items         []orderItemResponse `json:"items"`
	Subtotal      float64             `json:"subtotal"`
	Discount      float64             `json:"discount"`
	Total         float64             `json:"total"`
	CouponCode    string              `json:"couponCode,omitempty"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"paymentStatus"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ProductID: item.ProductID,
			UnitPrice: money(item.UnitPrice),
			Quantity:  item.Quantity,
		}
	}
	return orderResponse{
		ID:            o.ID,
		CustomerEmail: o.CustomerEmail,
		Items:         items,
		Subtotal:      money(o.Subtotal),
		Discount:      money(o.Discount),
		Total:         money(o.Total),
		CouponCode:    o.CouponCode,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.OrderItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = order.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	o, err := h.checkout.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerEmail: req.CustomerEmail,
		CouponCode:    req.CouponCode,
		Items:         items,
	})
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderResponse(o))
}

// respondCheckoutError maps checkout failures onto HTTP statuses. Coupon
// rejections carry the customer-displayable message; infrastructure failures
// during coupon validation are reported as retryable rather than blaming
// the code.
func (h *Handler) respondCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound    *order.ProductNotFoundError
		badQuantity *order.InvalidQuantityError
		noStock     *order.InsufficientStockError
		rejected    *order.CouponRejectedError
		unavailable *order.CouponUnavailableError
	)
	switch {
	case errors.Is(err, order.ErrInvalidEmail), errors.Is(err, order.ErrEmptyItems):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &badQuantity):
		respondError(w, http.StatusBadRequest, badQuantity.Error())
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &noStock):
		respondError(w, http.StatusConflict, noStock.Error())
	case errors.As(err, &rejected):
		respondError(w, http.StatusUnprocessableEntity, rejected.Message)
	case errors.As(err, &unavailable):
		respondError(w, http.StatusServiceUnavailable, "We could not verify your coupon right now, please try again")
	default:
		h.respondStoreError(w, r, err)
	}
}
