package repositories

import (
	"context"

	"proprental/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*models.Product, error)
	Search(ctx context.Context, query string) ([]*models.Product, error)
	// BulkCreate inserts all products and their subcategory links in one
	// transaction. Any failure rolls the whole batch back.
	BulkCreate(ctx context.Context, products []*models.Product) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	AppendImage(ctx context.Context, id uuid.UUID, image string) error
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, description, price, quantity, dimensions, images, category_id, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, quantity, dimensions, images, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Description,
		product.Price, product.Quantity, product.Dimensions, product.Images, product.CategoryID)
	if err != nil {
		return err
	}
	return r.replaceSubcategories(ctx, r.db, product.ID, product.SubcategoryIDs)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description,
		&product.Price, &product.Quantity, &product.Dimensions, &product.Images,
		&product.CategoryID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	subs, err := r.subcategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	product.SubcategoryIDs = subs
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, quantity = $4, dimensions = $5,
		    images = $6, category_id = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price,
		product.Quantity, product.Dimensions, product.Images, product.CategoryID, product.ID)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM product_subcategories WHERE product_id = $1`, product.ID); err != nil {
		return err
	}
	return r.replaceSubcategories(ctx, r.db, product.ID, product.SubcategoryIDs)
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *productRepo) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.queryProducts(ctx, query)
}

func (r *productRepo) Search(ctx context.Context, search string) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE LOWER(name) LIKE LOWER($1) OR LOWER(description) LIKE LOWER($1)
		ORDER BY created_at DESC
	`
	return r.queryProducts(ctx, query, "%"+search+"%")
}

func (r *productRepo) BulkCreate(ctx context.Context, products []*models.Product) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insertProduct := `
		INSERT INTO products (id, name, description, price, quantity, dimensions, images, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	insertLink := `INSERT INTO product_subcategories (product_id, category_id) VALUES ($1, $2)`

	for _, product := range products {
		if _, err := tx.Exec(ctx, insertProduct, product.ID, product.Name, product.Description,
			product.Price, product.Quantity, product.Dimensions, product.Images, product.CategoryID); err != nil {
			return err
		}
		for _, subID := range product.SubcategoryIDs {
			if _, err := tx.Exec(ctx, insertLink, product.ID, subID); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM products p
		WHERE p.category_id = $1
		   OR EXISTS (
			SELECT 1 FROM product_subcategories ps
			WHERE ps.product_id = p.id AND ps.category_id = $1
		   )
	`
	var count int
	err := r.db.QueryRow(ctx, query, categoryID).Scan(&count)
	return count, err
}

func (r *productRepo) AppendImage(ctx context.Context, id uuid.UUID, image string) error {
	query := `UPDATE products SET images = array_append(images, $1), updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, image, id)
	return err
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description,
			&product.Price, &product.Quantity, &product.Dimensions, &product.Images,
			&product.CategoryID, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) subcategoryIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT category_id FROM product_subcategories WHERE product_id = $1`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *productRepo) replaceSubcategories(ctx context.Context, db Database, productID uuid.UUID, ids []uuid.UUID) error {
	for _, subID := range ids {
		if _, err := db.Exec(ctx, `INSERT INTO product_subcategories (product_id, category_id) VALUES ($1, $2)`, productID, subID); err != nil {
			return err
		}
	}
	return nil
}
