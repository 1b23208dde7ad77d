package handlers

import (
	"errors"
	"net/http"

	"proprental/internal/common"
	"proprental/internal/models"
	"proprental/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// ProductHandlers handles product-related HTTP requests
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// ProductListResponse wraps the catalog listing for the storefront
type ProductListResponse struct {
	Success bool              `json:"success"`
	Data    []*models.Product `json:"data"`
}

// ListProducts returns the catalog, optionally filtered by a search query
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, &ProductListResponse{Success: true, Data: products})
}

// GetProduct returns product details by ID
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID format")
	}

	product, err := h.productService.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to get product")
	}
	return c.JSON(http.StatusOK, product)
}

type ProductRequest struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Price          float64     `json:"price"`
	Quantity       int         `json:"quantity"`
	Dimensions     string      `json:"dimensions"`
	Images         []string    `json:"images"`
	CategoryID     *uuid.UUID  `json:"category_id"`
	SubcategoryIDs []uuid.UUID `json:"subcategory_ids"`
}

// CreateProduct handles creating a new product
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product := &models.Product{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		Dimensions:     req.Dimensions,
		Images:         req.Images,
		CategoryID:     req.CategoryID,
		SubcategoryIDs: req.SubcategoryIDs,
	}
	if err := h.productService.Create(ctx, product); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating product details
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID format")
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product := &models.Product{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		Dimensions:     req.Dimensions,
		Images:         req.Images,
		CategoryID:     req.CategoryID,
		SubcategoryIDs: req.SubcategoryIDs,
	}
	if err := h.productService.Update(ctx, product); err != nil {
		if err == pgx.ErrNoRows {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a single product
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID format")
	}

	if err := h.productService.Delete(ctx, id); err != nil {
		return common.SendServerError(c, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// DeleteAllProducts wipes the whole catalog
func (h *ProductHandlers) DeleteAllProducts(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.productService.DeleteAll(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to delete products")
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// ExportProducts streams the catalog as a CSV download
func (h *ProductHandlers) ExportProducts(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.productService.ExportCSV(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to export products")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// DownloadTemplate serves a CSV in the upload format with one example row
func (h *ProductHandlers) DownloadTemplate(c echo.Context) error {
	template := "name,description,price,quantity,dimensions,category,subcategories,image_url\n" +
		`Vintage Armchair,Green velvet with oak legs,45,2,80x90x100,Furniture,"Chairs, Art Deco",https://example.com/armchair.jpg` + "\n"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="product-template.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(template))
}

// UploadProductPhoto attaches a single uploaded photo to a product
func (h *ProductHandlers) UploadProductPhoto(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product ID format")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return common.SendClientError(c, "Photo file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded photo")
	}
	defer file.Close()

	url, err := h.productService.UploadProductPhoto(ctx, id, fileHeader.Filename, file,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to upload photo")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
