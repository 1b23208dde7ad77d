package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"proprental/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductService serves canned results to the handlers.
type fakeProductService struct {
	products  []*models.Product
	photoErr  error
	searchErr error
}

func (f *fakeProductService) Create(context.Context, *models.Product) error { return nil }
func (f *fakeProductService) GetByID(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeProductService) Update(context.Context, *models.Product) error { return nil }
func (f *fakeProductService) Delete(context.Context, uuid.UUID) error       { return nil }
func (f *fakeProductService) DeleteAll(context.Context) (int64, error)      { return 0, nil }
func (f *fakeProductService) List(context.Context) ([]*models.Product, error) {
	return f.products, nil
}
func (f *fakeProductService) Search(context.Context, string) ([]*models.Product, error) {
	return f.products, f.searchErr
}
func (f *fakeProductService) ExportCSV(context.Context) ([]byte, error) { return nil, nil }
func (f *fakeProductService) UploadProductPhoto(context.Context, uuid.UUID, string, io.Reader, int64, string) (string, error) {
	if f.photoErr != nil {
		return "", f.photoErr
	}
	return "/uploads/photo.jpg", nil
}

func TestListProducts_WrapsResultInEnvelope(t *testing.T) {
	svc := &fakeProductService{products: []*models.Product{
		{ID: uuid.New(), Name: "Armchair", Price: 45},
	}}
	h := NewProductHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.ListProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Armchair", resp.Data[0].Name)
}

func TestListProducts_EmptyCatalogIsEmptyDataArray(t *testing.T) {
	h := NewProductHandlers(&fakeProductService{})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.ListProducts(c))
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func newPhotoUploadContext(t *testing.T, id uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "chair.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/"+id.String()+"/images", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	return c, rec
}

func TestUploadProductPhoto_UnknownProductIs404(t *testing.T) {
	svc := &fakeProductService{photoErr: fmt.Errorf("product not found: %w", pgx.ErrNoRows)}
	h := NewProductHandlers(svc)

	c, rec := newPhotoUploadContext(t, uuid.New())
	require.NoError(t, h.UploadProductPhoto(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadProductPhoto_Success(t *testing.T) {
	h := NewProductHandlers(&fakeProductService{})

	c, rec := newPhotoUploadContext(t, uuid.New())
	require.NoError(t, h.UploadProductPhoto(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"/uploads/photo.jpg"}`, rec.Body.String())
}
