// Package content defines the editorial entities of the storefront: blog
// posts and customer testimonials.
package content

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrPostNotFound is returned when a blog post does not exist.
	ErrPostNotFound = errors.New("blog post not found")
	// ErrTestimonialNotFound is returned when a testimonial does not exist.
	ErrTestimonialNotFound = errors.New("testimonial not found")
)

// BlogPost is an editorial article. Unpublished posts are visible only
// through the admin surface.
type BlogPost struct {
	ID        string
	Title     string
	Slug      string
	Excerpt   string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Testimonial is a short customer quote displayed on the storefront.
type Testimonial struct {
	ID        string
	Author    string
	Quote     string
	Rating    int
	Published bool
	CreatedAt time.Time
}

// BlogRepository defines persistence operations for blog posts.
type BlogRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	Create(ctx context.Context, p *BlogPost) error
	Update(ctx context.Context, p *BlogPost) error
	Delete(ctx context.Context, id string) error
}

// TestimonialRepository defines persistence operations for testimonials.
type TestimonialRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]Testimonial, error)
	Create(ctx context.Context, t *Testimonial) error
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id string) error
}
