// Package handler exposes the HTTP API: the public storefront surface and
// the API-key protected admin surface.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/atelierhq/atelier-api/internal/domain/category"
	"github.com/atelierhq/atelier-api/internal/domain/content"
	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/order"
	"github.com/atelierhq/atelier-api/internal/domain/payment"
	"github.com/atelierhq/atelier-api/internal/domain/product"
	"github.com/atelierhq/atelier-api/internal/domain/review"
)

// Handler carries the domain dependencies of every HTTP endpoint.
type Handler struct {
	products     product.Repository
	categories   category.Repository
	coupons      coupon.AdminRepository
	validator    coupon.Validator
	orders       order.Repository
	checkout     *order.Service
	payments     payment.Repository
	reviews      review.Repository
	blog         content.BlogRepository
	testimonials content.TestimonialRepository
}

// Config bundles the dependencies for NewHandler.
type Config struct {
	Products     product.Repository
	Categories   category.Repository
	Coupons      coupon.AdminRepository
	Validator    coupon.Validator
	Orders       order.Repository
	Checkout     *order.Service
	Payments     payment.Repository
	Reviews      review.Repository
	Blog         content.BlogRepository
	Testimonials content.TestimonialRepository
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		products:     cfg.Products,
		categories:   cfg.Categories,
		coupons:      cfg.Coupons,
		validator:    cfg.Validator,
		orders:       cfg.Orders,
		checkout:     cfg.Checkout,
		payments:     cfg.Payments,
		reviews:      cfg.Reviews,
		blog:         cfg.Blog,
		testimonials: cfg.Testimonials,
	}
}

// Routes mounts all endpoints on a chi router. The admin subtree is guarded
// by auth, everything else is public.
func (h *Handler) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/products/{id}/reviews", h.listProductReviews)
		r.Post("/reviews", h.createReview)
		r.Get("/categories", h.listCategories)
		r.Get("/blog", h.listBlogPosts)
		r.Get("/blog/{slug}", h.getBlogPost)
		r.Get("/testimonials", h.listTestimonials)
		r.Post("/coupons/validate", h.validateCoupon)
		r.Post("/checkout", h.placeOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth)

			r.Get("/products", h.adminListProducts)
			r.Post("/products", h.adminCreateProduct)
			r.Put("/products/{id}", h.adminUpdateProduct)
			r.Delete("/products/{id}", h.adminDeleteProduct)

			r.Post("/categories", h.adminCreateCategory)
			r.Put("/categories/{id}", h.adminUpdateCategory)
			r.Delete("/categories/{id}", h.adminDeleteCategory)

			r.Get("/coupons", h.adminListCoupons)
			r.Get("/coupons/{id}", h.adminGetCoupon)
			r.Post("/coupons", h.adminCreateCoupon)
			r.Put("/coupons/{id}", h.adminUpdateCoupon)
			r.Delete("/coupons/{id}", h.adminDeleteCoupon)

			r.Get("/orders", h.adminListOrders)
			r.Get("/orders/{id}", h.adminGetOrder)
			r.Put("/orders/{id}/status", h.adminUpdateOrderStatus)

			r.Get("/payments", h.adminListPayments)
			r.Get("/orders/{id}/payments", h.adminListOrderPayments)
			r.Post("/payments", h.adminCreatePayment)
			r.Post("/payments/{id}/confirm", h.adminConfirmPayment)
			r.Post("/payments/{id}/fail", h.adminFailPayment)

			r.Get("/reviews", h.adminListReviews)
			r.Post("/reviews/{id}/approve", h.adminApproveReview)
			r.Delete("/reviews/{id}", h.adminDeleteReview)

			r.Get("/blog", h.adminListBlogPosts)
			r.Post("/blog", h.adminCreateBlogPost)
			r.Put("/blog/{id}", h.adminUpdateBlogPost)
			r.Delete("/blog/{id}", h.adminDeleteBlogPost)

			r.Get("/testimonials", h.adminListTestimonials)
			r.Post("/testimonials", h.adminCreateTestimonial)
			r.Put("/testimonials/{id}", h.adminUpdateTestimonial)
			r.Delete("/testimonials/{id}", h.adminDeleteTestimonial)
		})
	})

	return r
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{Code: code, Message: msg})
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// respondStoreError maps persistence failures to responses. Known not-found
// sentinels become 404; anything else is logged and reported as a generic
// 500 so store internals never leak to clients.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, category.ErrNotFound):
		respondError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, coupon.ErrNotFound):
		respondError(w, http.StatusNotFound, "coupon not found")
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, payment.ErrNotFound):
		respondError(w, http.StatusNotFound, "payment not found")
	case errors.Is(err, review.ErrNotFound):
		respondError(w, http.StatusNotFound, "review not found")
	case errors.Is(err, content.ErrPostNotFound):
		respondError(w, http.StatusNotFound, "blog post not found")
	case errors.Is(err, content.ErrTestimonialNotFound):
		respondError(w, http.StatusNotFound, "testimonial not found")
	case errors.Is(err, coupon.ErrDuplicateCode):
		respondError(w, http.StatusConflict, "a coupon with this code already exists")
	default:
		zctx.From(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
