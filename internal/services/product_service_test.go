package services

import (
	"context"
	"strings"
	"testing"

	"proprental/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductServiceCreate_Validation(t *testing.T) {
	svc := NewProductService(&fakeProductRepo{}, &fakeCategoryRepo{}, nil, &fakeCache{})

	err := svc.Create(context.Background(), &models.Product{Name: " "})
	assert.Error(t, err)

	err = svc.Create(context.Background(), &models.Product{Name: "Armchair", Price: -1})
	assert.Error(t, err)

	unknown := uuid.New()
	err = svc.Create(context.Background(), &models.Product{Name: "Armchair", CategoryID: &unknown})
	assert.Error(t, err)
}

func TestProductServiceCreate_AssignsID(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := NewProductService(repo, &fakeCategoryRepo{}, nil, &fakeCache{})

	product := &models.Product{Name: "Armchair", Price: 45}
	require.NoError(t, svc.Create(context.Background(), product))
	assert.NotEqual(t, uuid.Nil, product.ID)
}

func TestProductServiceDelete_InvalidatesCache(t *testing.T) {
	cache := &fakeCache{}
	svc := NewProductService(&fakeProductRepo{}, &fakeCategoryRepo{}, nil, cache)

	id := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, []uuid.UUID{id}, cache.productInvalidated)
}

func TestProductServiceDeleteAll_FlushesCache(t *testing.T) {
	cache := &fakeCache{}
	svc := NewProductService(&fakeProductRepo{}, &fakeCategoryRepo{}, nil, cache)

	_, err := svc.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.True(t, cache.flushedEverything)
}

func TestExportCSV_RoundTripsThroughUploadColumns(t *testing.T) {
	repo := &fakeProductRepo{inserted: []*models.Product{
		{Name: "Armchair", Description: "Green, velvet", Price: 45.5,
			Images: []string{"/uploads/image-a.jpg", "/uploads/image-b.jpg"}},
		{Name: "Lamp", Price: 12},
	}}
	svc := NewProductService(repo, &fakeCategoryRepo{}, nil, &fakeCache{})

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,description,price,image_url", lines[0])
	assert.Equal(t, `Armchair,"Green, velvet",45.5,"/uploads/image-a.jpg, /uploads/image-b.jpg"`, lines[1])
	assert.Equal(t, "Lamp,,12,", lines[2])

	// The export parses back through the ingestion reader.
	rows, err := ReadCSVRows(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, SplitImageURLs(rows[0]["image_url"]), 2)
}
