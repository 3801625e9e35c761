package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/pkg/models"
)

var ErrDuplicateEmail = errors.New("email already registered")

type CustomerService struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

func NewCustomerService(db DatabaseQuerier, logger *logrus.Logger) *CustomerService {
	return &CustomerService{db: db, logger: logger}
}

const customerColumns = "id, email, name, allergies, avoid_list, liked_drinks, disliked_drinks, preferred_vendors, created_at, updated_at"

func scanCustomer(row pgx.Row) (*models.CustomerAccount, error) {
	var c models.CustomerAccount
	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.Allergies, &c.AvoidList,
		&c.LikedDrinks, &c.DislikedDrinks, &c.PreferredVendors, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Allergies == nil {
		c.Allergies = []string{}
	}
	if c.AvoidList == nil {
		c.AvoidList = []string{}
	}
	if c.LikedDrinks == nil {
		c.LikedDrinks = []int64{}
	}
	if c.DislikedDrinks == nil {
		c.DislikedDrinks = []int64{}
	}
	if c.PreferredVendors == nil {
		c.PreferredVendors = []string{}
	}
	return &c, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.CustomerAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM customer_accounts ORDER BY created_at DESC", customerColumns)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []models.CustomerAccount{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.CustomerAccount, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM customer_accounts WHERE email = $1)", req.Email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	query := fmt.Sprintf(`
		INSERT INTO customer_accounts (email, name, allergies, avoid_list, liked_drinks, disliked_drinks, preferred_vendors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, customerColumns)

	c, err := scanCustomer(s.db.QueryRow(ctx, query, req.Email, req.Name,
		emptyIfNil(req.Allergies), emptyIfNil(req.AvoidList),
		emptyInt64IfNil(req.LikedDrinks), emptyInt64IfNil(req.DislikedDrinks),
		emptyIfNil(req.PreferredVendors)))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": c.ID,
		"email":       c.Email,
	}).Info("Customer account created")

	return c, nil
}

// UpdateCustomer applies a partial update. Preference arrays replace the
// stored value when present in the request; nil slices leave it untouched.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *models.CustomerUpdateRequest) (*models.CustomerAccount, error) {
	query := fmt.Sprintf(`
		UPDATE customer_accounts
		SET email = COALESCE($2, email),
		    name = COALESCE($3, name),
		    allergies = COALESCE($4, allergies),
		    avoid_list = COALESCE($5, avoid_list),
		    liked_drinks = COALESCE($6, liked_drinks),
		    disliked_drinks = COALESCE($7, disliked_drinks),
		    preferred_vendors = COALESCE($8, preferred_vendors),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, customerColumns)

	c, err := scanCustomer(s.db.QueryRow(ctx, query, id, req.Email, req.Name,
		req.Allergies, req.AvoidList, req.LikedDrinks, req.DislikedDrinks, req.PreferredVendors))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM customer_accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyInt64IfNil(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}
