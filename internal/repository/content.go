package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/atelier-api/internal/domain/content"
)

const (
	blogColumns = `id, title, slug, excerpt, body, published, created_at, updated_at`

	listBlogPostsSQL = `SELECT ` + blogColumns + ` FROM blog_posts ORDER BY created_at DESC`

	listPublishedBlogPostsSQL = `SELECT ` + blogColumns + ` FROM blog_posts
		WHERE published = TRUE ORDER BY created_at DESC`

	getBlogPostBySlugSQL = `SELECT ` + blogColumns + ` FROM blog_posts WHERE slug = $1`

	insertBlogPostSQL = `INSERT INTO blog_posts (id, title, slug, excerpt, body, published)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateBlogPostSQL = `UPDATE blog_posts SET title = $2, slug = $3, excerpt = $4,
		body = $5, published = $6, updated_at = now() WHERE id = $1`

	deleteBlogPostSQL = `DELETE FROM blog_posts WHERE id = $1`

	testimonialColumns = `id, author, quote, rating, published, created_at`

	listTestimonialsSQL = `SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY created_at DESC`

	listPublishedTestimonialsSQL = `SELECT ` + testimonialColumns + ` FROM testimonials
		WHERE published = TRUE ORDER BY created_at DESC`

	insertTestimonialSQL = `INSERT INTO testimonials (id, author, quote, rating, published)
		VALUES ($1, $2, $3, $4, $5)`

	updateTestimonialSQL = `UPDATE testimonials SET author = $2, quote = $3, rating = $4,
		published = $5 WHERE id = $1`

	deleteTestimonialSQL = `DELETE FROM testimonials WHERE id = $1`
)

var (
	_ content.BlogRepository        = (*BlogRepository)(nil)
	_ content.TestimonialRepository = (*TestimonialRepository)(nil)
)

// BlogRepository implements content.BlogRepository backed by PostgreSQL.
type BlogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository returns a BlogRepository that uses the given pool.
func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

// List returns blog posts, optionally only published ones.
func (r *BlogRepository) List(ctx context.Context, publishedOnly bool) ([]content.BlogPost, error) {
	query := listBlogPostsSQL
	if publishedOnly {
		query = listPublishedBlogPostsSQL
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	return pgx.CollectRows(rows, scanBlogPost)
}

// GetBySlug returns a blog post by slug, or content.ErrPostNotFound.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*content.BlogPost, error) {
	rows, err := r.pool.Query(ctx, getBlogPostBySlugSQL, slug)
	if err != nil {
		return nil, fmt.Errorf("getting blog post %q: %w", slug, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanBlogPost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrPostNotFound
		}
		return nil, fmt.Errorf("getting blog post %q: %w", slug, err)
	}
	return &p, nil
}

// Create inserts a new blog post.
func (r *BlogRepository) Create(ctx context.Context, p *content.BlogPost) error {
	_, err := r.pool.Exec(ctx, insertBlogPostSQL, p.ID, p.Title, p.Slug, p.Excerpt, p.Body, p.Published)
	if err != nil {
		return fmt.Errorf("creating blog post %q: %w", p.ID, err)
	}
	return nil
}

// Update rewrites a blog post's fields.
func (r *BlogRepository) Update(ctx context.Context, p *content.BlogPost) error {
	tag, err := r.pool.Exec(ctx, updateBlogPostSQL, p.ID, p.Title, p.Slug, p.Excerpt, p.Body, p.Published)
	if err != nil {
		return fmt.Errorf("updating blog post %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

// Delete removes a blog post.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteBlogPostSQL, id)
	if err != nil {
		return fmt.Errorf("deleting blog post %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

func scanBlogPost(row pgx.CollectableRow) (content.BlogPost, error) {
	var p content.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// TestimonialRepository implements content.TestimonialRepository backed by
// PostgreSQL.
type TestimonialRepository struct {
	pool *pgxpool.Pool
}

// NewTestimonialRepository returns a TestimonialRepository that uses the
// given pool.
func NewTestimonialRepository(pool *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{pool: pool}
}

// List returns testimonials, optionally only published ones.
func (r *TestimonialRepository) List(ctx context.Context, publishedOnly bool) ([]content.Testimonial, error) {
	query := listTestimonialsSQL
	if publishedOnly {
		query = listPublishedTestimonialsSQL
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing testimonials: %w", err)
	}
	return pgx.CollectRows(rows, scanTestimonial)
}

// Create inserts a new testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, t *content.Testimonial) error {
	_, err := r.pool.Exec(ctx, insertTestimonialSQL, t.ID, t.Author, t.Quote, t.Rating, t.Published)
	if err != nil {
		return fmt.Errorf("creating testimonial %q: %w", t.ID, err)
	}
	return nil
}

// Update rewrites a testimonial's fields.
func (r *TestimonialRepository) Update(ctx context.Context, t *content.Testimonial) error {
	tag, err := r.pool.Exec(ctx, updateTestimonialSQL, t.ID, t.Author, t.Quote, t.Rating, t.Published)
	if err != nil {
		return fmt.Errorf("updating testimonial %q: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrTestimonialNotFound
	}
	return nil
}

// Delete removes a testimonial.
func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteTestimonialSQL, id)
	if err != nil {
		return fmt.Errorf("deleting testimonial %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrTestimonialNotFound
	}
	return nil
}

func scanTestimonial(row pgx.CollectableRow) (content.Testimonial, error) {
	var t content.Testimonial
	err := row.Scan(&t.ID, &t.Author, &t.Quote, &t.Rating, &t.Published, &t.CreatedAt)
	return t, err
}
