// Package review defines customer product reviews and their moderation state.
package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a review does not exist.
var ErrNotFound = errors.New("review not found")

// Review is a customer-submitted product review. Reviews start unapproved
// and are hidden from the storefront until an administrator approves them.
type Review struct {
	ID           string
	ProductID    string
	CustomerName string
	Rating       int
	Comment      string
	Approved     bool
	CreatedAt    time.Time
}

// Repository defines persistence operations for reviews.
type Repository interface {
	ListByProduct(ctx context.Context, productID string, approvedOnly bool) ([]Review, error)
	List(ctx context.Context) ([]Review, error)
	Create(ctx context.Context, r *Review) error
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
