package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/internal/email"
	"github.com/satisfyhq/satisfy/pkg/models"
)

// Default reasons recorded when an admin gives none.
const (
	defaultRejectReason  = "Application did not meet requirements"
	defaultBlockReason   = "Blocked by administrator"
	defaultSuspendReason = "Payment required"
)

type VendorService struct {
	db     DatabaseQuerier
	sender email.Sender
	config *config.VendorConfig
	logger *logrus.Logger
}

func NewVendorService(db DatabaseQuerier, sender email.Sender, cfg *config.VendorConfig, logger *logrus.Logger) *VendorService {
	return &VendorService{db: db, sender: sender, config: cfg, logger: logger}
}

const vendorColumns = "id, business_name, contact_person, email, phone, facebook_business_id, status, reject_reason, block_reason, suspend_reason, created_at, updated_at"

func scanVendor(row pgx.Row) (*models.VendorAccount, error) {
	var v models.VendorAccount
	err := row.Scan(&v.ID, &v.BusinessName, &v.ContactPerson, &v.Email, &v.Phone,
		&v.FacebookBusinessID, &v.Status, &v.RejectReason, &v.BlockReason,
		&v.SuspendReason, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VendorService) ListVendors(ctx context.Context) ([]models.VendorAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM vendor_accounts ORDER BY created_at DESC", vendorColumns)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	vendors := []models.VendorAccount{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

func (s *VendorService) getVendor(ctx context.Context, id int64) (*models.VendorAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM vendor_accounts WHERE id = $1", vendorColumns)

	v, err := scanVendor(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return v, nil
}

func (s *VendorService) GetVendorByBusinessName(ctx context.Context, businessName string) (*models.VendorAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM vendor_accounts WHERE business_name = $1", vendorColumns)

	v, err := scanVendor(s.db.QueryRow(ctx, query, businessName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor by business name: %w", err)
	}
	return v, nil
}

func (s *VendorService) CreateVendor(ctx context.Context, req *models.VendorRequest) (*models.VendorAccount, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendor_accounts WHERE email = $1 OR business_name = $2)",
		req.Email, req.BusinessName).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check vendor uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	status := req.Status
	if status == "" {
		status = models.VendorStatusPending
	}

	query := fmt.Sprintf(`
		INSERT INTO vendor_accounts (business_name, contact_person, email, phone, facebook_business_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, vendorColumns)

	v, err := scanVendor(s.db.QueryRow(ctx, query, req.BusinessName, req.ContactPerson,
		req.Email, req.Phone, req.FacebookBusinessID, status))
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"vendor_id":     v.ID,
		"business_name": v.BusinessName,
		"status":        v.Status,
	}).Info("Vendor account created")

	return v, nil
}

func (s *VendorService) UpdateVendor(ctx context.Context, id int64, req *models.VendorUpdateRequest) (*models.VendorAccount, error) {
	query := fmt.Sprintf(`
		UPDATE vendor_accounts
		SET business_name = COALESCE($2, business_name),
		    contact_person = COALESCE($3, contact_person),
		    email = COALESCE($4, email),
		    phone = COALESCE($5, phone),
		    facebook_business_id = COALESCE($6, facebook_business_id),
		    status = COALESCE($7, status),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, vendorColumns)

	v, err := scanVendor(s.db.QueryRow(ctx, query, id, req.BusinessName, req.ContactPerson,
		req.Email, req.Phone, req.FacebookBusinessID, req.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return v, nil
}

func (s *VendorService) DeleteVendor(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM vendor_accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// setStatus transitions a vendor and records the reason in the matching
// column, clearing the other two so a restored vendor carries no stale
// reasons.
func (s *VendorService) setStatus(ctx context.Context, id int64, status string, rejectReason, blockReason, suspendReason *string) (*models.VendorAccount, error) {
	query := fmt.Sprintf(`
		UPDATE vendor_accounts
		SET status = $2,
		    reject_reason = $3,
		    block_reason = $4,
		    suspend_reason = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, vendorColumns)

	v, err := scanVendor(s.db.QueryRow(ctx, query, id, status, rejectReason, blockReason, suspendReason))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update vendor status: %w", err)
	}
	return v, nil
}

func contactName(v *models.VendorAccount) string {
	if v.ContactPerson != nil && *v.ContactPerson != "" {
		return *v.ContactPerson
	}
	return "Vendor"
}

func (s *VendorService) notify(v *models.VendorAccount, subject, body, htmlBody string) *email.Status {
	status := s.sender.Send(v.Email, subject, body, htmlBody)
	entry := s.logger.WithFields(logrus.Fields{
		"vendor_id": v.ID,
		"email":     v.Email,
		"subject":   subject,
	})
	if status.Success {
		entry.Info("Vendor notification sent")
	} else {
		// Email failure never rolls back the status change.
		entry.WithField("reason", status.Message).Warn("Vendor notification failed")
	}
	return status
}

func (s *VendorService) ApproveVendor(ctx context.Context, id int64) (*models.VendorAccount, *email.Status, error) {
	v, err := s.setStatus(ctx, id, models.VendorStatusApproved, nil, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	subject, body, htmlBody := email.VendorApproval(v.BusinessName, contactName(v), s.config.PortalURL)
	return v, s.notify(v, subject, body, htmlBody), nil
}

func (s *VendorService) RejectVendor(ctx context.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error) {
	if reason == "" {
		reason = defaultRejectReason
	}
	v, err := s.setStatus(ctx, id, models.VendorStatusRejected, &reason, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	subject, body, htmlBody := email.VendorRejection(v.BusinessName, contactName(v), reason)
	return v, s.notify(v, subject, body, htmlBody), nil
}

func (s *VendorService) BlockVendor(ctx context.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error) {
	if reason == "" {
		reason = defaultBlockReason
	}
	v, err := s.setStatus(ctx, id, models.VendorStatusBlocked, nil, &reason, nil)
	if err != nil {
		return nil, nil, err
	}
	subject, body, htmlBody := email.VendorBlocked(v.BusinessName, contactName(v), reason)
	return v, s.notify(v, subject, body, htmlBody), nil
}

func (s *VendorService) UnblockVendor(ctx context.Context, id int64) (*models.VendorAccount, *email.Status, error) {
	v, err := s.setStatus(ctx, id, models.VendorStatusApproved, nil, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	subject, body, htmlBody := email.VendorRestored(v.BusinessName, contactName(v), s.config.PortalURL)
	return v, s.notify(v, subject, body, htmlBody), nil
}

func (s *VendorService) SuspendVendor(ctx context.Context, id int64, reason string) (*models.VendorAccount, *email.Status, error) {
	if reason == "" {
		reason = defaultSuspendReason
	}
	v, err := s.setStatus(ctx, id, models.VendorStatusSuspended, nil, nil, &reason)
	if err != nil {
		return nil, nil, err
	}
	subject, body, htmlBody := email.VendorSuspended(v.BusinessName, contactName(v), reason)
	return v, s.notify(v, subject, body, htmlBody), nil
}

func (s *VendorService) UnsuspendVendor(ctx context.Context, id int64) (*models.VendorAccount, *email.Status, error) {
	v, err := s.setStatus(ctx, id, models.VendorStatusApproved, nil, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	subject, body, htmlBody := email.VendorRestored(v.BusinessName, contactName(v), s.config.PortalURL)
	return v, s.notify(v, subject, body, htmlBody), nil
}
