package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proprental/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategoryService records the category handed to Create.
type fakeCategoryService struct {
	created *models.Category
}

func (f *fakeCategoryService) Create(_ context.Context, category *models.Category) error {
	f.created = category
	return nil
}
func (f *fakeCategoryService) GetByID(context.Context, uuid.UUID) (*models.Category, error) {
	return nil, nil
}
func (f *fakeCategoryService) Update(context.Context, *models.Category) error { return nil }
func (f *fakeCategoryService) Delete(context.Context, uuid.UUID) error        { return nil }
func (f *fakeCategoryService) ListTree(context.Context) ([]*models.Category, error) {
	return nil, nil
}

func postCategory(t *testing.T, h *CategoryHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h.CreateCategory(c))
	return rec
}

func TestCreateCategory_BindsParentField(t *testing.T) {
	svc := &fakeCategoryService{}
	h := NewCategoryHandlers(svc)

	parentID := uuid.New()
	rec := postCategory(t, h, `{"name":"Chairs","parent":"`+parentID.String()+`"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Chairs", svc.created.Name)
	require.NotNil(t, svc.created.ParentID)
	assert.Equal(t, parentID, *svc.created.ParentID)
}

func TestCreateCategory_AbsentParentMeansMain(t *testing.T) {
	svc := &fakeCategoryService{}
	h := NewCategoryHandlers(svc)

	rec := postCategory(t, h, `{"name":"Furniture"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Nil(t, svc.created.ParentID)
}
