package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/satisfyhq/satisfy/internal/email"
	"github.com/satisfyhq/satisfy/pkg/models"
)

// DatabaseQuerier is the slice of pgxpool.Pool the services use, kept narrow
// so tests can substitute pgxmock.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// CatalogReader is the read-only catalog view the recommendation pipeline
// depends on. Every call re-fetches; the pipeline never caches.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// ProductServiceInterface defines the catalog operations used by handlers.
type ProductServiceInterface interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListVendorProducts(ctx context.Context, vendor string) ([]models.Product, error)
	CreateProduct(ctx context.Context, vendor string, req *models.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, vendor string, productID int64, req *models.ProductUpdateRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, vendor string, productID int64) error
}

// InteractionServiceInterface defines like/dislike tracking operations.
type InteractionServiceInterface interface {
	RecordInteraction(ctx context.Context, req *models.InteractionRequest) (*models.ProductInteraction, error)
	VendorProductStats(ctx context.Context, vendor string) ([]models.ProductStats, error)
}

// RecommendationServiceInterface defines the recommendation pipeline entry point.
type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResult, error)
}

// CustomerServiceInterface defines customer account management operations.
type CustomerServiceInterface interface {
	ListCustomers(ctx context.Context) ([]models.CustomerAccount, error)
	CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.CustomerAccount, error)
	UpdateCustomer(ctx context.Context, customerID int64, req *models.CustomerUpdateRequest) (*models.CustomerAccount, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

// VendorServiceInterface defines vendor account and lifecycle operations.
type VendorServiceInterface interface {
	ListVendors(ctx context.Context) ([]models.VendorAccount, error)
	GetVendorByBusinessName(ctx context.Context, businessName string) (*models.VendorAccount, error)
	CreateVendor(ctx context.Context, req *models.VendorRequest) (*models.VendorAccount, error)
	UpdateVendor(ctx context.Context, vendorID int64, req *models.VendorUpdateRequest) (*models.VendorAccount, error)
	DeleteVendor(ctx context.Context, vendorID int64) error
	ApproveVendor(ctx context.Context, vendorID int64) (*models.VendorAccount, *email.Status, error)
	RejectVendor(ctx context.Context, vendorID int64, reason string) (*models.VendorAccount, *email.Status, error)
	BlockVendor(ctx context.Context, vendorID int64, reason string) (*models.VendorAccount, *email.Status, error)
	UnblockVendor(ctx context.Context, vendorID int64) (*models.VendorAccount, *email.Status, error)
	SuspendVendor(ctx context.Context, vendorID int64, reason string) (*models.VendorAccount, *email.Status, error)
	UnsuspendVendor(ctx context.Context, vendorID int64) (*models.VendorAccount, *email.Status, error)
}
