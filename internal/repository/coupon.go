package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-api/internal/domain/coupon"
)

const (
	couponColumns = `id, code, description, discount_type, discount_value,
		minimum_order_amount, usage_limit, usage_count, first_time_only, active,
		starts_at, expires_at, product_specific, inclusion_type, created_at, updated_at`

	findCouponByCodeSQL = `SELECT ` + couponColumns + `
		FROM coupons WHERE UPPER(code) = UPPER($1)`

	getCouponByIDSQL = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	listCouponsSQL = `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	couponProductIDsSQL = `SELECT product_id FROM coupon_products WHERE coupon_id = $1 ORDER BY product_id`

	insertCouponSQL = `INSERT INTO coupons (id, code, description, discount_type, discount_value,
		minimum_order_amount, usage_limit, first_time_only, active,
		starts_at, expires_at, product_specific, inclusion_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	updateCouponSQL = `UPDATE coupons SET code = $2, description = $3, discount_type = $4,
		discount_value = $5, minimum_order_amount = $6, usage_limit = $7,
		first_time_only = $8, active = $9, starts_at = $10, expires_at = $11,
		product_specific = $12, inclusion_type = $13, updated_at = now()
		WHERE id = $1`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`

	deleteCouponProductsSQL = `DELETE FROM coupon_products WHERE coupon_id = $1`

	insertCouponProductSQL = `INSERT INTO coupon_products (coupon_id, product_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`

	insertRedemptionSQL = `INSERT INTO coupon_redemptions (order_id, coupon_id, customer_email, amount)
		VALUES ($1, $2, $3, $4) ON CONFLICT (order_id) DO NOTHING`

	// The usage_limit guard makes the increment conditional: zero affected
	// rows means a concurrent redemption exhausted the limit first.
	incrementUsageSQL = `UPDATE coupons SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)`

	importCouponSQL = `INSERT INTO coupons (id, code, description, discount_type, discount_value,
		minimum_order_amount, usage_limit, first_time_only, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (UPPER(code)) DO NOTHING`
)

var (
	_ coupon.AdminRepository = (*CouponRepository)(nil)
	_ coupon.Ledger          = (*CouponRepository)(nil)
)

// CouponRepository implements coupon.AdminRepository and coupon.Ledger
// backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up a coupon by its code (case-insensitive).
// Returns coupon.ErrNotFound when no matching coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, findCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &c, nil
}

// GetByID returns a single coupon by id, or coupon.ErrNotFound.
func (r *CouponRepository) GetByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, getCouponByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting coupon %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("getting coupon %q: %w", id, err)
	}
	return &c, nil
}

// List returns all coupons, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCoupon)
}

// ProductIDs returns the product ids bound to a product-specific coupon.
func (r *CouponRepository) ProductIDs(ctx context.Context, couponID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, couponProductIDsSQL, couponID)
	if err != nil {
		return nil, fmt.Errorf("listing coupon products for %q: %w", couponID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
}

// Create inserts a coupon and its bound product set in one transaction.
// Returns coupon.ErrDuplicateCode when the normalized code is taken.
func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon, productIDs []string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertCouponSQL,
			c.ID, c.Code, c.Description, string(c.DiscountType), c.Value,
			c.MinimumOrderAmount, c.UsageLimit, c.FirstTimeOnly, c.Active,
			c.StartsAt, c.ExpiresAt, c.ProductSpecific, string(c.InclusionType),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return coupon.ErrDuplicateCode
			}
			return fmt.Errorf("creating coupon %q: %w", c.Code, err)
		}
		return insertCouponProducts(ctx, tx, c.ID, productIDs)
	})
}

// Update rewrites a coupon's fields and replaces its bound product set in
// one transaction. Returns coupon.ErrNotFound when the coupon is gone.
func (r *CouponRepository) Update(ctx context.Context, c *coupon.Coupon, productIDs []string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateCouponSQL,
			c.ID, c.Code, c.Description, string(c.DiscountType), c.Value,
			c.MinimumOrderAmount, c.UsageLimit, c.FirstTimeOnly, c.Active,
			c.StartsAt, c.ExpiresAt, c.ProductSpecific, string(c.InclusionType),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return coupon.ErrDuplicateCode
			}
			return fmt.Errorf("updating coupon %q: %w", c.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return coupon.ErrNotFound
		}
		if _, err := tx.Exec(ctx, deleteCouponProductsSQL, c.ID); err != nil {
			return fmt.Errorf("clearing coupon products for %q: %w", c.ID, err)
		}
		return insertCouponProducts(ctx, tx, c.ID, productIDs)
	})
}

// Delete removes a coupon; bound product rows cascade away with it.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		return fmt.Errorf("deleting coupon %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// Redeem atomically records a redemption for an order. The redemption row is
// keyed by order id, so a retried checkout is a no-op rather than a double
// increment. The usage_count increment is conditional on the usage limit;
// losing that race rolls the transaction back and reports
// coupon.ErrUsageLimitReached.
func (r *CouponRepository) Redeem(ctx context.Context, couponID, orderID, customerEmail string, amount decimal.Decimal) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertRedemptionSQL, orderID, couponID, customerEmail, amount)
		if err != nil {
			return fmt.Errorf("recording redemption for order %q: %w", orderID, err)
		}
		if tag.RowsAffected() == 0 {
			// Already redeemed for this order.
			return nil
		}

		tag, err = tx.Exec(ctx, incrementUsageSQL, couponID)
		if err != nil {
			return fmt.Errorf("incrementing usage for coupon %q: %w", couponID, err)
		}
		if tag.RowsAffected() == 0 {
			return coupon.ErrUsageLimitReached
		}
		return nil
	})
}

// ImportCodes inserts one coupon per code, all sharing the template's
// discount rule, in a single batched round trip. Codes already present are
// skipped. Returns the number of rows actually inserted.
func (r *CouponRepository) ImportCodes(ctx context.Context, template coupon.Coupon, codes []string) (int64, error) {
	batch := &pgx.Batch{}
	for _, code := range codes {
		batch.Queue(importCouponSQL,
			uuid.New().String(), code, template.Description, string(template.DiscountType),
			template.Value, template.MinimumOrderAmount, template.UsageLimit, template.FirstTimeOnly,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	var inserted int64
	for range codes {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("importing coupon codes: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func (r *CouponRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertCouponProducts(ctx context.Context, tx pgx.Tx, couponID string, productIDs []string) error {
	for _, pid := range productIDs {
		if _, err := tx.Exec(ctx, insertCouponProductSQL, couponID, pid); err != nil {
			return fmt.Errorf("binding product %q to coupon %q: %w", pid, couponID, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var (
		c             coupon.Coupon
		discountType  string
		inclusionType string
		value         decimal.Decimal
		minOrder      decimal.Decimal
		usageLimit    *int32
		startsAt      *time.Time
		expiresAt     *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &discountType, &value,
		&minOrder, &usageLimit, &c.UsageCount, &c.FirstTimeOnly, &c.Active,
		&startsAt, &expiresAt, &c.ProductSpecific, &inclusionType,
		&c.CreatedAt, &c.UpdatedAt,
	)
	c.DiscountType = coupon.DiscountType(discountType)
	c.InclusionType = coupon.InclusionType(inclusionType)
	c.Value = value
	c.MinimumOrderAmount = minOrder
	if usageLimit != nil {
		limit := int(*usageLimit)
		c.UsageLimit = &limit
	}
	c.StartsAt = startsAt
	c.ExpiresAt = expiresAt
	return c, err
}
