// Command coupon-import bulk-loads campaign coupon codes from gzipped text
// files (one code per line) into the database. Every imported code becomes a
// coupon sharing one discount rule given on the command line.
//
// Files are streamed concurrently; a bloom filter keeps per-run memory flat
// while deduplicating hundreds of millions of candidate lines, and the
// database unique index catches the filter's rare false negatives.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/atelierhq/atelier-api/internal/domain/coupon"
	"github.com/atelierhq/atelier-api/internal/repository"
)

const (
	bloomCapacity = 200_000_000
	bloomFPR      = 0.001
	minCodeLen    = 4
	maxCodeLen    = 32
	batchSize     = 1000
	progressEvery = 1_000_000
)

func main() {
	var (
		databaseURL  string
		discountType string
		value        string
		minOrder     string
		usageLimit   int
		description  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&discountType, "discount-type", "percentage", "discount type for imported codes (percentage, fixed_amount, free_shipping)")
	flag.StringVar(&value, "value", "10", "discount value for imported codes")
	flag.StringVar(&minOrder, "minimum-order", "0", "minimum order amount for imported codes")
	flag.IntVar(&usageLimit, "usage-limit", 1, "usage limit per code (0 = unlimited)")
	flag.StringVar(&description, "description", "Imported campaign code", "coupon description")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one gzipped code file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	template, err := buildTemplate(discountType, value, minOrder, usageLimit, description)
	if err != nil {
		slog.Error("invalid discount rule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(ctx, databaseURL, files, template); err != nil {
		slog.Error("coupon import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("coupon import completed successfully")
}

func buildTemplate(discountType, value, minOrder string, usageLimit int, description string) (coupon.Coupon, error) {
	switch coupon.DiscountType(discountType) {
	case coupon.DiscountPercentage, coupon.DiscountFixedAmount, coupon.DiscountFreeShipping:
	default:
		return coupon.Coupon{}, errors.Errorf("unknown discount type %q", discountType)
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return coupon.Coupon{}, errors.Wrap(err, "parse value")
	}
	m, err := decimal.NewFromString(minOrder)
	if err != nil {
		return coupon.Coupon{}, errors.Wrap(err, "parse minimum order")
	}

	template := coupon.Coupon{
		Description:        description,
		DiscountType:       coupon.DiscountType(discountType),
		Value:              v,
		MinimumOrderAmount: m,
		Active:             true,
	}
	if usageLimit > 0 {
		template.UsageLimit = &usageLimit
	}
	return template, nil
}

func run(ctx context.Context, databaseURL string, files []string, template coupon.Coupon) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	coupons := repository.NewCouponRepository(pool)

	// Shared across files so a code repeated between files is imported once.
	var (
		seenMu sync.Mutex
		seen   = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	)

	batches := make(chan []string, len(files))

	g, ctx := errgroup.WithContext(ctx)

	producers, prodCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		producers.Go(streamFile(prodCtx, f, seen, &seenMu, batches))
	}
	g.Go(func() error {
		defer close(batches)
		return producers.Wait()
	})
	g.Go(func() error {
		return writeBatches(ctx, coupons, template, batches)
	})

	return g.Wait()
}

// streamFile reads one gzipped file and forwards batches of unseen codes.
func streamFile(ctx context.Context, path string, seen *bloom.BloomFilter, seenMu *sync.Mutex, out chan<- []string) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var (
			batch []string
			total uint64
		)
		scanner := bufio.NewScanner(gz)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}

			code := coupon.NormalizeCode(scanner.Text())
			if len(code) < minCodeLen || len(code) > maxCodeLen || strings.ContainsRune(code, ' ') {
				continue
			}

			seenMu.Lock()
			dup := seen.TestOrAddString(code)
			seenMu.Unlock()
			if dup {
				continue
			}

			batch = append(batch, code)
			if len(batch) >= batchSize {
				select {
				case out <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
				batch = nil
			}

			total++
			if total%progressEvery == 0 {
				slog.Info("import progress", slog.String("file", path), slog.Uint64("codes", total))
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		if len(batch) > 0 {
			select {
			case out <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		slog.Info("file complete", slog.String("file", path), slog.Uint64("codes", total))
		return nil
	}
}

// writeBatches drains the batch channel into the database.
func writeBatches(ctx context.Context, coupons *repository.CouponRepository, template coupon.Coupon, in <-chan []string) error {
	var written int64
	for batch := range in {
		n, err := coupons.ImportCodes(ctx, template, batch)
		if err != nil {
			return errors.Wrap(err, "import codes")
		}
		written += n
	}
	slog.Info("codes written", slog.Int64("count", written))
	return nil
}
