package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/pkg/models"
)

// ErrNotFound is returned when a requested entity does not exist or the
// caller is not allowed to touch it.
var ErrNotFound = errors.New("not found")

type ProductService struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

func NewProductService(db DatabaseQuerier, logger *logrus.Logger) *ProductService {
	return &ProductService{
		db:     db,
		logger: logger,
	}
}

const productColumns = "id, name, category, price, roast, notes, allergens, caffeine_mg, vendor, created_at, updated_at"

// ListProducts returns the full catalog snapshot across all vendors.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY id"

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListVendorProducts returns the catalog slice owned by one vendor.
func (s *ProductService) ListVendorProducts(ctx context.Context, vendor string) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE vendor = $1 ORDER BY id"

	rows, err := s.db.Query(ctx, query, vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *ProductService) CreateProduct(ctx context.Context, vendor string, req *models.ProductRequest) (*models.Product, error) {
	allergens := req.Allergens
	if allergens == nil {
		allergens = []string{}
	}

	query := `
		INSERT INTO products (name, category, price, roast, notes, allergens, caffeine_mg, vendor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING ` + productColumns

	row := s.db.QueryRow(ctx, query,
		req.Name, req.Category, req.Price, req.Roast, req.Notes, allergens, req.CaffeineMg, vendor)

	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"vendor":     vendor,
	}).Info("Product created")

	return product, nil
}

// UpdateProduct applies a partial update; absent fields keep their stored
// values. Ownership is enforced by the vendor predicate.
func (s *ProductService) UpdateProduct(ctx context.Context, vendor string, productID int64, req *models.ProductUpdateRequest) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = COALESCE($3, name),
		    category = COALESCE($4, category),
		    price = COALESCE($5, price),
		    roast = COALESCE($6, roast),
		    notes = COALESCE($7, notes),
		    allergens = COALESCE($8, allergens),
		    caffeine_mg = COALESCE($9, caffeine_mg),
		    updated_at = now()
		WHERE id = $1 AND vendor = $2
		RETURNING ` + productColumns

	row := s.db.QueryRow(ctx, query,
		productID, vendor, req.Name, req.Category, req.Price, req.Roast, req.Notes, req.Allergens, req.CaffeineMg)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, vendor string, productID int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1 AND vendor = $2", productID, vendor)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"vendor":     vendor,
	}).Info("Product deleted")

	return nil
}

func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Price, &p.Roast, &p.Notes,
			&p.Allergens, &p.CaffeineMg, &p.Vendor, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Roast, &p.Notes,
		&p.Allergens, &p.CaffeineMg, &p.Vendor, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
