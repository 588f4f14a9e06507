// Command seed-catalog loads product files into the storefront's persistent
// store. Files are plain JSON arrays, optionally gzip-compressed; multiple
// files are decoded concurrently and merged by product id, later files
// winning. Without any files the embedded demo catalog is used.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shopnow/internal/domain/catalog"
	"github.com/xenking/shopnow/internal/store"
)

func main() {
	var (
		storeDir   string
		catalogKey string
		force      bool
	)

	flag.StringVar(&storeDir, "store-dir", "", "store directory (or SHOPNOW_STORE_DIR env)")
	flag.StringVar(&catalogKey, "catalog-key", "shopnow_products", "store key holding the catalog")
	flag.BoolVar(&force, "force", false, "overwrite an already-seeded catalog")
	flag.Parse()

	if storeDir == "" {
		storeDir = os.Getenv("SHOPNOW_STORE_DIR")
	}
	if storeDir == "" {
		slog.Error("store directory is required: set --store-dir or SHOPNOW_STORE_DIR")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, storeDir, catalogKey, flag.Args(), force); err != nil {
		slog.Error("catalog seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog seed completed successfully")
}

func run(ctx context.Context, storeDir, catalogKey string, files []string, force bool) error {
	products, err := loadProducts(ctx, files)
	if err != nil {
		return err
	}

	slog.Info("products loaded", slog.Int("count", len(products)))

	kv, err := store.NewFileStore(storeDir)
	if err != nil {
		return errors.Wrap(err, "open store")
	}

	repo := catalog.NewStoreRepository(kv, catalogKey)
	if force {
		return repo.Reseed(ctx, products)
	}
	return repo.Seed(ctx, products)
}

// loadProducts decodes all files concurrently and merges them by product id.
// With no files it falls back to the embedded demo catalog.
func loadProducts(ctx context.Context, files []string) ([]catalog.Product, error) {
	if len(files) == 0 {
		slog.Info("no product files given, using embedded catalog")
		products, err := catalog.DefaultSeed()
		if err != nil {
			return nil, errors.Wrap(err, "load embedded catalog")
		}
		return products, nil
	}

	perFile := make([][]catalog.Product, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(loadFile(ctx, i, f, perFile))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeByID(perFile), nil
}

func loadFile(ctx context.Context, idx int, path string, out [][]catalog.Product) func() error {
	return func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := readProductFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		products, err := catalog.Decode(data)
		if err != nil {
			return errors.Wrapf(err, "decode %s", path)
		}

		slog.Info("file loaded", slog.String("path", path), slog.Int("products", len(products)))
		out[idx] = products
		return nil
	}
}

// readProductFile reads path, transparently decompressing .gz files.
func readProductFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "create gzip reader")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}
	return io.ReadAll(r)
}

// mergeByID flattens the per-file results in file order, later files
// overriding earlier ones. Output is sorted by id for a stable catalog.
func mergeByID(perFile [][]catalog.Product) []catalog.Product {
	byID := make(map[int64]catalog.Product)
	for _, products := range perFile {
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	merged := make([]catalog.Product, 0, len(byID))
	for _, p := range byID {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged
}
