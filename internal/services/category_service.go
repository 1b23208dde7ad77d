package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"proprental/internal/caching"
	"proprental/internal/models"
	"proprental/internal/repositories"

	"github.com/google/uuid"
)

// ErrCategoryInUse is returned when a delete is refused because products still
// reference the category or one of its subcategories.
var ErrCategoryInUse = errors.New("category still referenced by products")

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListTree returns all main categories with their subcategories nested,
	// served from cache when possible.
	ListTree(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository,
	cacheService caching.CacheService) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cacheService: cacheService,
	}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return errors.New("category name is required")
	}
	if category.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *category.ParentID)
		if err != nil {
			return fmt.Errorf("parent category not found: %w", err)
		}
		if !parent.IsMain() {
			return errors.New("categories nest only one level deep")
		}
	}

	category.ID = uuid.New()
	category.Name = FormatCategoryName(category.Name)
	category.Slug = Slugify(category.Name)
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsMain() {
		subs, err := s.categoryRepo.ListSubcategories(ctx, id)
		if err != nil {
			return nil, err
		}
		category.Subcategories = subs
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, category *models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return errors.New("category name is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, category.ID); err != nil {
		return err
	}

	category.Name = FormatCategoryName(category.Name)
	category.Slug = Slugify(category.Name)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products", ErrCategoryInUse, count)
	}

	subs, err := s.categoryRepo.ListSubcategories(ctx, id)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		subCount, err := s.productRepo.CountByCategory(ctx, sub.ID)
		if err != nil {
			return err
		}
		if subCount > 0 {
			return fmt.Errorf("%w: subcategory %s has %d products", ErrCategoryInUse, sub.Name, subCount)
		}
	}
	for _, sub := range subs {
		if err := s.categoryRepo.Delete(ctx, sub.ID); err != nil {
			return err
		}
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *categoryService) ListTree(ctx context.Context) ([]*models.Category, error) {
	if cached, err := s.cacheService.GetCategoryList(ctx); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: category list cache read failed: %v", err)
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	tree := buildCategoryTree(categories)

	if cacheErr := s.cacheService.SetCategoryList(ctx, tree); cacheErr != nil {
		log.Printf("WARN: failed to cache category list: %v", cacheErr)
	}
	return tree, nil
}

func (s *categoryService) invalidateList(ctx context.Context) {
	if err := s.cacheService.InvalidateCategoryList(ctx); err != nil {
		log.Printf("WARN: failed to invalidate category list cache: %v", err)
	}
}

func buildCategoryTree(categories []*models.Category) []*models.Category {
	byID := make(map[uuid.UUID]*models.Category, len(categories))
	var mains []*models.Category
	for _, category := range categories {
		byID[category.ID] = category
		if category.IsMain() {
			category.Subcategories = []*models.Category{}
			mains = append(mains, category)
		}
	}
	for _, category := range categories {
		if category.ParentID == nil {
			continue
		}
		if parent, ok := byID[*category.ParentID]; ok {
			parent.Subcategories = append(parent.Subcategories, category)
		}
	}
	if mains == nil {
		mains = []*models.Category{}
	}
	return mains
}
