package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"proprental/internal/caching"
	"proprental/internal/models"
	"proprental/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// imageWorkers caps concurrent image downloads/segmentations per batch so an
// external image host is never hit with unbounded fan-out.
const imageWorkers = 8

type IngestService interface {
	// IngestFile processes the uploaded CSV at csvPath and removes the file
	// afterwards, on success and failure alike.
	IngestFile(ctx context.Context, csvPath string, useRembg bool) (*models.IngestResult, error)

	// Ingest runs the batch pipeline: parse, resolve categories, acquire
	// images, bulk-insert. The insert is atomic: any failure means zero
	// products persisted.
	Ingest(ctx context.Context, r io.Reader, useRembg bool) (*models.IngestResult, error)
}

type ingestService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	images       ImageStore
	rembg        *BackgroundProcessor
	cache        caching.CacheService
}

func NewIngestService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository,
	images ImageStore, rembg *BackgroundProcessor, cache caching.CacheService) IngestService {
	return &ingestService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		rembg:        rembg,
		cache:        cache,
	}
}

func (s *ingestService) IngestFile(ctx context.Context, csvPath string, useRembg bool) (*models.IngestResult, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open uploaded csv: %w", err)
	}
	defer func() {
		file.Close()
		if err := os.Remove(csvPath); err != nil {
			log.Printf("WARN: failed to remove uploaded csv %s: %v", csvPath, err)
		}
	}()

	return s.Ingest(ctx, file, useRembg)
}

func (s *ingestService) Ingest(ctx context.Context, r io.Reader, useRembg bool) (*models.IngestResult, error) {
	rows, err := ReadCSVRows(r)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	resolver := NewCategoryResolver(s.categoryRepo)
	if err := resolver.Preload(ctx); err != nil {
		return nil, err
	}

	type rowWork struct {
		product *models.Product
		urls    []string
	}

	// Category resolution is sequential and fail-fast: a row without a
	// category aborts the whole batch before anything is persisted to the
	// product collection.
	work := make([]*rowWork, 0, len(rows))
	for i, raw := range rows {
		draft := NormalizeRow(raw)
		if draft.CategoryName == "" {
			return nil, fmt.Errorf("row %d: category is required", i+1)
		}

		categoryID, err := resolver.ResolveCategory(ctx, draft.CategoryName)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		subIDs := make([]uuid.UUID, 0, len(draft.SubcategoryNames))
		for _, sub := range draft.SubcategoryNames {
			subID, err := resolver.ResolveSubcategory(ctx, sub, categoryID)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			subIDs = append(subIDs, subID)
		}

		catID := categoryID
		work = append(work, &rowWork{
			product: &models.Product{
				ID:             uuid.New(),
				Name:           draft.Name,
				Description:    draft.Description,
				Price:          draft.Price,
				Quantity:       draft.Quantity,
				Dimensions:     draft.Dimensions,
				CategoryID:     &catID,
				SubcategoryIDs: subIDs,
			},
			urls: draft.ImageURLs,
		})
	}

	// Image acquisition fans out across rows with a bounded worker count.
	// Failures degrade to placeholders inside the store/processor, so the
	// group never returns an error for a bad image.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWorkers)
	for _, w := range work {
		w := w
		g.Go(func() error {
			if len(w.urls) == 0 {
				w.product.Images = []string{PlaceholderNoImage}
				return nil
			}
			images := make([]string, 0, len(w.urls))
			for _, u := range w.urls {
				ref := s.images.Fetch(gctx, u)
				if useRembg {
					ref = s.rembg.Process(gctx, ref)
				}
				images = append(images, ref)
			}
			w.product.Images = images
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]*models.Product, len(work))
	for i, w := range work {
		products[i] = w.product
	}

	if err := s.productRepo.BulkCreate(ctx, products); err != nil {
		return nil, fmt.Errorf("bulk insert: %w", err)
	}

	if resolver.CreatedCount() > 0 {
		if cacheErr := s.cache.InvalidateCategoryList(ctx); cacheErr != nil {
			log.Printf("WARN: failed to invalidate category list cache: %v", cacheErr)
		}
	}

	return &models.IngestResult{Count: len(products)}, nil
}
