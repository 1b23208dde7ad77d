package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"proprental/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIngestService records what the handler hands it.
type fakeIngestService struct {
	result    *models.IngestResult
	err       error
	gotCSV    string
	gotRembg  bool
	pathGiven string
}

func (f *fakeIngestService) IngestFile(ctx context.Context, csvPath string, useRembg bool) (*models.IngestResult, error) {
	f.pathGiven = csvPath
	data, err := os.ReadFile(csvPath)
	if err == nil {
		f.gotCSV = string(data)
	}
	os.Remove(csvPath)
	f.gotRembg = useRembg
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeIngestService) Ingest(ctx context.Context, r io.Reader, useRembg bool) (*models.IngestResult, error) {
	return f.result, f.err
}

func newUploadRequest(t *testing.T, csv string, useRembg string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	if useRembg != "" {
		require.NoError(t, writer.WriteField("useRembg", useRembg))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/upload", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestUploadProducts_Success(t *testing.T) {
	svc := &fakeIngestService{result: &models.IngestResult{Count: 3}}
	h := NewUploadHandlers(svc, t.TempDir())

	req, rec := newUploadRequest(t, "name,price,category\nArmchair,45,Furniture\n", "true")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.UploadProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
	assert.True(t, svc.gotRembg)
	assert.Equal(t, "name,price,category\nArmchair,45,Furniture\n", svc.gotCSV)
}

func TestUploadProducts_RembgDefaultsOff(t *testing.T) {
	svc := &fakeIngestService{result: &models.IngestResult{Count: 1}}
	h := NewUploadHandlers(svc, t.TempDir())

	req, rec := newUploadRequest(t, "name,price,category\nLamp,12,Lighting\n", "")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.UploadProducts(c))
	assert.False(t, svc.gotRembg)
}

func TestUploadProducts_MissingFile(t *testing.T) {
	h := NewUploadHandlers(&fakeIngestService{}, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/upload", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.UploadProducts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadProducts_IngestErrorReturnsDetails(t *testing.T) {
	svc := &fakeIngestService{err: errors.New("row 2: category is required")}
	h := NewUploadHandlers(svc, t.TempDir())

	req, rec := newUploadRequest(t, "name,price,category\nLamp,12,\n", "")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.UploadProducts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to process CSV file", resp["error"])
	assert.Equal(t, "row 2: category is required", resp["details"])
}
