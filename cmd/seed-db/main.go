// Command seed-db loads the catalog seed file and provisions demo content
// plus the default admin API key.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-api/internal/domain/category"
	"github.com/atelierhq/atelier-api/internal/domain/content"
	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/domain/product"
	"github.com/atelierhq/atelier-api/internal/handler"
	"github.com/atelierhq/atelier-api/internal/repository"
)

type catalogJSON struct {
	Categories []struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	} `json:"categories"`
	Products []struct {
		Name         string          `json:"name"`
		Slug         string          `json:"slug"`
		Description  string          `json:"description"`
		Price        decimal.Decimal `json:"price"`
		CategorySlug string          `json:"categorySlug"`
		ImageURL     string          `json:"imageUrl"`
		Stock        int             `json:"stock"`
	} `json:"products"`
}

func main() {
	var (
		databaseURL  string
		catalogFile  string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or ATELIER_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ATELIER_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("ATELIER_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or ATELIER_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ATELIER_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, pool, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	if err := seedContent(ctx, pool); err != nil {
		return errors.Wrap(err, "seed content")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	categories := repository.NewCategoryRepository(pool)
	categoryIDs := make(map[string]string, len(catalog.Categories))

	slog.Info("creating categories", slog.Int("count", len(catalog.Categories)))

	for _, c := range catalog.Categories {
		cat := category.Category{
			ID:          uuid.New().String(),
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
		}
		if err := categories.Create(ctx, &cat); err != nil {
			return errors.Wrapf(err, "create category %s", c.Slug)
		}
		categoryIDs[c.Slug] = cat.ID
		slog.Info("created category", slog.String("slug", c.Slug))
	}

	products := repository.NewProductRepository(pool)

	slog.Info("creating products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		prod := product.Product{
			ID:          uuid.New().String(),
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			Price:       p.Price,
			CategoryID:  categoryIDs[p.CategorySlug],
			ImageURL:    p.ImageURL,
			Stock:       p.Stock,
			Active:      true,
		}
		if err := products.Create(ctx, &prod); err != nil {
			return errors.Wrapf(err, "create product %s", p.Slug)
		}
		slog.Info("created product", slog.String("slug", p.Slug))
	}

	return nil
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo coupons")

	limit := 100
	expires := time.Now().AddDate(0, 3, 0)

	coupons := []coupon.Coupon{
		{
			ID:                 uuid.New().String(),
			Code:               "SAVE20",
			Description:        "20% off orders over $50",
			DiscountType:       coupon.DiscountPercentage,
			Value:              decimal.NewFromInt(20),
			MinimumOrderAmount: decimal.NewFromInt(50),
			Active:             true,
		},
		{
			ID:            uuid.New().String(),
			Code:          "FIRST10",
			Description:   "$10 off your first order",
			DiscountType:  coupon.DiscountFixedAmount,
			Value:         decimal.NewFromInt(10),
			FirstTimeOnly: true,
			Active:        true,
		},
		{
			ID:           uuid.New().String(),
			Code:         "SHIPFREE",
			Description:  "Free shipping, first 100 uses",
			DiscountType: coupon.DiscountFreeShipping,
			Value:        decimal.Zero,
			UsageLimit:   &limit,
			ExpiresAt:    &expires,
			Active:       true,
		},
	}

	repo := repository.NewCouponRepository(pool)
	for i := range coupons {
		if err := repo.Create(ctx, &coupons[i], nil); err != nil {
			return errors.Wrapf(err, "create coupon %s", coupons[i].Code)
		}
		slog.Info("created coupon", slog.String("code", coupons[i].Code))
	}

	return nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo content")

	blog := repository.NewBlogRepository(pool)
	post := content.BlogPost{
		ID:        uuid.New().String(),
		Title:     "Welcome to the Atelier",
		Slug:      "welcome-to-the-atelier",
		Excerpt:   "A look behind the workshop door.",
		Body:      "Every piece in our catalog starts as a sketch on the workshop wall.",
		Published: true,
	}
	if err := blog.Create(ctx, &post); err != nil {
		return errors.Wrap(err, "create blog post")
	}

	testimonials := repository.NewTestimonialRepository(pool)
	t := content.Testimonial{
		ID:        uuid.New().String(),
		Author:    "Maya R.",
		Quote:     "The ceramics arrived beautifully packed and even better in person.",
		Rating:    5,
		Published: true,
	}
	if err := testimonials.Create(ctx, &t); err != nil {
		return errors.Wrap(err, "create testimonial")
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default admin API key")

	repo := repository.NewAPIKeyRepository(pool)
	if err := repo.Upsert(ctx, "default", handler.HashAPIKey(apiKey, []byte(pepper)), "Default admin key", []string{"admin"}); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"))

	return nil
}
