package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"proprental/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CategoryListTTL bounds staleness of the storefront category tree. Write
// paths invalidate explicitly; the TTL is the backstop.
const CategoryListTTL = 5 * time.Minute

const ProductTTL = 15 * time.Minute

type CacheService interface {
	// Category list caching (storefront read endpoint)
	GetCategoryList(ctx context.Context) ([]*models.Category, error)
	SetCategoryList(ctx context.Context, categories []*models.Category) error
	InvalidateCategoryList(ctx context.Context) error

	// Product caching
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Cache invalidation
	InvalidateAllCache(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

const categoryListKey = "proprental:categories:list"

func (r *redisCacheService) GetCategoryList(ctx context.Context) ([]*models.Category, error) {
	data, err := r.client.Get(ctx, categoryListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var categories []*models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *redisCacheService) SetCategoryList(ctx context.Context, categories []*models.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoryListKey, data, CategoryListTTL).Err()
}

func (r *redisCacheService) InvalidateCategoryList(ctx context.Context) error {
	return r.client.Del(ctx, categoryListKey).Err()
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	key := fmt.Sprintf("proprental:product:%s", productID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	key := fmt.Sprintf("proprental:product:%s", product.ID.String())
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	key := fmt.Sprintf("proprental:product:%s", productID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "proprental:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
