package services

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/internal/email"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type recordingSender struct {
	to      string
	subject string
	body    string
	status  *email.Status
}

func (r *recordingSender) Send(to, subject, body, htmlBody string) *email.Status {
	r.to, r.subject, r.body = to, subject, body
	if r.status != nil {
		return r.status
	}
	return &email.Status{Success: true, Message: "sent"}
}

func vendorColumnsList() []string {
	return []string{"id", "business_name", "contact_person", "email", "phone", "facebook_business_id",
		"status", "reject_reason", "block_reason", "suspend_reason", "created_at", "updated_at"}
}

func vendorRow(status string, contact *string, blockReason *string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(vendorColumnsList()).
		AddRow(int64(1), "Starbrew", contact, "owner@starbrew.example", (*string)(nil), (*string)(nil),
			status, (*string)(nil), blockReason, (*string)(nil), now, now)
}

func newVendorService(t *testing.T, sender email.Sender) (*VendorService, pgxmock.PgxPoolIface) {
	t.Helper()
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cfg := &config.VendorConfig{PortalURL: "http://localhost:5000/vendor"}
	return NewVendorService(mockDB, sender, cfg, logger), mockDB
}

func TestVendorService_ApproveVendor(t *testing.T) {
	sender := &recordingSender{}
	svc, mockDB := newVendorService(t, sender)

	contact := "Maya"
	mockDB.ExpectQuery("UPDATE vendor_accounts").
		WithArgs(int64(1), models.VendorStatusApproved, (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(vendorRow(models.VendorStatusApproved, &contact, nil))

	vendor, status, err := svc.ApproveVendor(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, models.VendorStatusApproved, vendor.Status)
	assert.True(t, status.Success)
	assert.Equal(t, "owner@starbrew.example", sender.to)
	assert.Contains(t, sender.subject, "Approved")
	assert.Contains(t, sender.body, "Maya")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestVendorService_BlockVendor_DefaultReason(t *testing.T) {
	sender := &recordingSender{}
	svc, mockDB := newVendorService(t, sender)

	reason := "Blocked by administrator"
	mockDB.ExpectQuery("UPDATE vendor_accounts").
		WithArgs(int64(1), models.VendorStatusBlocked, (*string)(nil), &reason, (*string)(nil)).
		WillReturnRows(vendorRow(models.VendorStatusBlocked, nil, &reason))

	vendor, status, err := svc.BlockVendor(context.Background(), 1, "")

	require.NoError(t, err)
	assert.Equal(t, models.VendorStatusBlocked, vendor.Status)
	assert.True(t, status.Success)
	// Contact person absent falls back to the generic salutation
	assert.Contains(t, sender.body, "Vendor")
	assert.Contains(t, sender.body, "Blocked by administrator")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestVendorService_EmailFailureDoesNotFailTransition(t *testing.T) {
	sender := &recordingSender{status: &email.Status{Success: false, Message: "smtp: connection refused"}}
	svc, mockDB := newVendorService(t, sender)

	reason := "Payment required"
	mockDB.ExpectQuery("UPDATE vendor_accounts").
		WithArgs(int64(1), models.VendorStatusSuspended, (*string)(nil), (*string)(nil), &reason).
		WillReturnRows(vendorRow(models.VendorStatusSuspended, nil, nil))

	vendor, status, err := svc.SuspendVendor(context.Background(), 1, "")

	require.NoError(t, err)
	assert.Equal(t, models.VendorStatusSuspended, vendor.Status)
	assert.False(t, status.Success)
	assert.Equal(t, "smtp: connection refused", status.Message)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestVendorService_UnblockRestoresApproved(t *testing.T) {
	sender := &recordingSender{}
	svc, mockDB := newVendorService(t, sender)

	mockDB.ExpectQuery("UPDATE vendor_accounts").
		WithArgs(int64(1), models.VendorStatusApproved, (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(vendorRow(models.VendorStatusApproved, nil, nil))

	vendor, status, err := svc.UnblockVendor(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, models.VendorStatusApproved, vendor.Status)
	assert.True(t, status.Success)
	assert.Contains(t, sender.subject, "Restored")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestVendorService_RejectVendor_NotFound(t *testing.T) {
	sender := &recordingSender{}
	svc, mockDB := newVendorService(t, sender)

	reason := "Application did not meet requirements"
	mockDB.ExpectQuery("UPDATE vendor_accounts").
		WithArgs(int64(99), models.VendorStatusRejected, &reason, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(vendorColumnsList()))

	_, _, err := svc.RejectVendor(context.Background(), 99, "")

	assert.ErrorIs(t, err, ErrNotFound)
	// No email on a failed transition
	assert.Empty(t, sender.to)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
