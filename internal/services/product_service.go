package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"proprental/internal/caching"
	"proprental/internal/models"
	"proprental/internal/repositories"

	"github.com/google/uuid"
)

const productPhotoBucket = "product-photos"

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*models.Product, error)
	Search(ctx context.Context, query string) ([]*models.Product, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	UploadProductPhoto(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	minioService MinioService
	cacheService caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository,
	minioService MinioService, cacheService caching.CacheService) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		minioService: minioService,
		cacheService: cacheService,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return errors.New("product name is required")
	}
	if product.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if product.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *product.CategoryID); err != nil {
			return fmt.Errorf("category not found: %w", err)
		}
	}

	product.ID = uuid.New()
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		// Cache errors never fail the read path.
		log.Printf("WARN: cache error for product %s: %v", id.String(), err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetProduct(ctx, product, caching.ProductTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache product %s: %v", id.String(), cacheErr)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return errors.New("product name is required")
	}
	if product.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if _, err := s.productRepo.GetByID(ctx, product.ID); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteProduct(ctx, product.ID); cacheErr != nil {
		log.Printf("WARN: failed to invalidate product cache %s: %v", product.ID.String(), cacheErr)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteProduct(ctx, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate product cache %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *productService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.productRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if cacheErr := s.cacheService.InvalidateAllCache(ctx); cacheErr != nil {
		log.Printf("WARN: failed to flush cache after delete-all: %v", cacheErr)
	}
	return deleted, nil
}

func (s *productService) List(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productService) Search(ctx context.Context, query string) ([]*models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.productRepo.List(ctx)
	}
	return s.productRepo.Search(ctx, query)
}

// ExportCSV renders the whole catalog in the same column layout the upload
// template uses, so an export can be edited and re-imported.
func (s *productService) ExportCSV(ctx context.Context) ([]byte, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"name", "description", "price", "image_url"}); err != nil {
		return nil, err
	}
	for _, product := range products {
		record := []string{
			product.Name,
			product.Description,
			fmt.Sprintf("%g", product.Price),
			strings.Join(product.Images, ", "),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadProductPhoto stores a single admin-uploaded photo in object storage
// under a content-derived key and appends its presigned URL to the product.
func (s *productService) UploadProductPhoto(ctx context.Context, productID uuid.UUID, filename string,
	reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return "", fmt.Errorf("product not found: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	sum := sha256.Sum256(data)
	objectName := fmt.Sprintf("%s/%s%s", productID.String(), hex.EncodeToString(sum[:8]), strings.ToLower(filepath.Ext(filename)))

	if err := s.minioService.EnsureBucketExists(ctx, productPhotoBucket); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	if err := s.minioService.UploadImage(ctx, productPhotoBucket, objectName, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	url, err := s.minioService.GetPresignedURL(ctx, productPhotoBucket, objectName, 7*24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}

	if err := s.productRepo.AppendImage(ctx, productID, url); err != nil {
		return "", err
	}
	if cacheErr := s.cacheService.DeleteProduct(ctx, productID); cacheErr != nil {
		log.Printf("WARN: failed to invalidate product cache %s: %v", productID.String(), cacheErr)
	}
	return url, nil
}
