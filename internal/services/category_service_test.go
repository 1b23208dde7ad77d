package services

import (
	"context"
	"testing"

	"proprental/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProductRepo overrides CountByCategory per category ID.
type countingProductRepo struct {
	fakeProductRepo
	counts map[uuid.UUID]int
}

func (r *countingProductRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int, error) {
	return r.counts[categoryID], nil
}

func TestCategoryServiceCreate_FormatsNameAndSlug(t *testing.T) {
	repo := &fakeCategoryRepo{}
	cache := &fakeCache{}
	svc := NewCategoryService(repo, &countingProductRepo{}, cache)

	category := &models.Category{Name: "stage  props"}
	require.NoError(t, svc.Create(context.Background(), category))
	assert.Equal(t, "Stage Props", category.Name)
	assert.Equal(t, "stage-props", category.Slug)
	assert.Equal(t, 1, cache.listInvalidations)
}

func TestCategoryServiceCreate_RejectsNestingBelowSubcategory(t *testing.T) {
	main := newCategory("Furniture", nil)
	sub := newCategory("Chairs", &main.ID)
	repo := &fakeCategoryRepo{categories: []*models.Category{main, sub}}
	svc := NewCategoryService(repo, &countingProductRepo{}, &fakeCache{})

	err := svc.Create(context.Background(), &models.Category{Name: "Stools", ParentID: &sub.ID})
	assert.Error(t, err)
}

func TestCategoryServiceDelete_RefusedWhileReferenced(t *testing.T) {
	category := newCategory("Furniture", nil)
	repo := &fakeCategoryRepo{categories: []*models.Category{category}}
	products := &countingProductRepo{counts: map[uuid.UUID]int{category.ID: 3}}
	svc := NewCategoryService(repo, products, &fakeCache{})

	err := svc.Delete(context.Background(), category.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Len(t, repo.categories, 1)
}

func TestCategoryServiceDelete_RefusedWhileSubcategoryReferenced(t *testing.T) {
	main := newCategory("Furniture", nil)
	sub := newCategory("Chairs", &main.ID)
	repo := &fakeCategoryRepo{categories: []*models.Category{main, sub}}
	products := &countingProductRepo{counts: map[uuid.UUID]int{sub.ID: 1}}
	svc := NewCategoryService(repo, products, &fakeCache{})

	err := svc.Delete(context.Background(), main.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Len(t, repo.categories, 2)
}

func TestCategoryServiceDelete_RemovesSubtreeWhenUnreferenced(t *testing.T) {
	main := newCategory("Furniture", nil)
	sub := newCategory("Chairs", &main.ID)
	repo := &fakeCategoryRepo{categories: []*models.Category{main, sub}}
	cache := &fakeCache{}
	svc := NewCategoryService(repo, &countingProductRepo{}, cache)

	require.NoError(t, svc.Delete(context.Background(), main.ID))
	assert.Empty(t, repo.categories)
	assert.Equal(t, 1, cache.listInvalidations)
}

func TestListTree_NestsSubcategoriesAndCaches(t *testing.T) {
	main := newCategory("Furniture", nil)
	sub := newCategory("Chairs", &main.ID)
	orphanParent := uuid.New()
	orphan := newCategory("Lost", &orphanParent)
	repo := &fakeCategoryRepo{categories: []*models.Category{main, sub, orphan}}
	cache := &fakeCache{}
	svc := NewCategoryService(repo, &countingProductRepo{}, cache)

	tree, err := svc.ListTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, main.ID, tree[0].ID)
	require.Len(t, tree[0].Subcategories, 1)
	assert.Equal(t, sub.ID, tree[0].Subcategories[0].ID)
	assert.Equal(t, tree, cache.storedCategoryList)
}

func TestListTree_ServedFromCache(t *testing.T) {
	cached := []*models.Category{newCategory("Furniture", nil)}
	cache := &fakeCache{categoryList: cached}
	svc := NewCategoryService(&fakeCategoryRepo{}, &countingProductRepo{}, cache)

	tree, err := svc.ListTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, tree)
	assert.Nil(t, cache.storedCategoryList)
}
