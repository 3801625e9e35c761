package email

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/satisfyhq/satisfy/internal/config"
)

var testEmailConfig = config.EmailConfig{
	Provider:  "mock",
	FromEmail: "noreply@satisfy.example",
	FromName:  "Satisfy",
}

func TestNewSender_MockProvider(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	sender := NewSender(&testEmailConfig, logger)

	status := sender.Send("owner@starbrew.example", "Test", "plain", "<p>html</p>")
	assert.True(t, status.Success)
}

func TestBuildMessage_MultipartAlternative(t *testing.T) {
	msg := buildMessage("Satisfy", "noreply@satisfy.example", "owner@starbrew.example",
		"Account Blocked - Satisfy Platform", "plain body", "<p>html body</p>")

	assert.Contains(t, msg, "From: Satisfy <noreply@satisfy.example>")
	assert.Contains(t, msg, "To: owner@starbrew.example")
	assert.Contains(t, msg, "Subject: Account Blocked - Satisfy Platform")
	assert.Contains(t, msg, "Content-Type: multipart/alternative")
	assert.Contains(t, msg, "plain body")
	assert.Contains(t, msg, "<p>html body</p>")
	// Plain part must precede the HTML part so clients prefer HTML
	assert.Less(t, strings.Index(msg, "plain body"), strings.Index(msg, "<p>html body</p>"))
}

func TestVendorTemplates_ContainReason(t *testing.T) {
	_, body, htmlBody := VendorBlocked("Starbrew", "Maya", "Repeated policy violations")
	assert.Contains(t, body, "Repeated policy violations")
	assert.Contains(t, htmlBody, "Repeated policy violations")

	_, body, _ = VendorSuspended("Starbrew", "Maya", "Payment required")
	assert.Contains(t, body, "Payment required")

	_, body, _ = VendorRejection("Starbrew", "Maya", "Application did not meet requirements")
	assert.Contains(t, body, "Application did not meet requirements")
}
