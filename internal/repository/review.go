package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/atelier-api/internal/domain/review"
)

const (
	reviewColumns = `id, product_id, customer_name, rating, comment, approved, created_at`

	listReviewsSQL = `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`

	listReviewsByProductSQL = `SELECT ` + reviewColumns + ` FROM reviews
		WHERE product_id = $1 ORDER BY created_at DESC`

	listApprovedReviewsByProductSQL = `SELECT ` + reviewColumns + ` FROM reviews
		WHERE product_id = $1 AND approved = TRUE ORDER BY created_at DESC`

	insertReviewSQL = `INSERT INTO reviews (id, product_id, customer_name, rating, comment, approved)
		VALUES ($1, $2, $3, $4, $5, $6)`

	approveReviewSQL = `UPDATE reviews SET approved = TRUE WHERE id = $1`

	deleteReviewSQL = `DELETE FROM reviews WHERE id = $1`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListByProduct returns a product's reviews, optionally only approved ones.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, approvedOnly bool) ([]review.Review, error) {
	query := listReviewsByProductSQL
	if approvedOnly {
		query = listApprovedReviewsByProductSQL
	}
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

// List returns every review for moderation, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return pgx.CollectRows(rows, scanReview)
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.pool.Exec(ctx, insertReviewSQL,
		rv.ID, rv.ProductID, rv.CustomerName, rv.Rating, rv.Comment, rv.Approved,
	)
	if err != nil {
		return fmt.Errorf("creating review %q: %w", rv.ID, err)
	}
	return nil
}

// Approve marks a review as approved for the storefront.
func (r *ReviewRepository) Approve(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, approveReviewSQL, id)
	if err != nil {
		return fmt.Errorf("approving review %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteReviewSQL, id)
	if err != nil {
		return fmt.Errorf("deleting review %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.CustomerName, &rv.Rating, &rv.Comment, &rv.Approved, &rv.CreatedAt)
	return rv, err
}
