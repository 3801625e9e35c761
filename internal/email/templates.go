package email

import "fmt"

// Vendor lifecycle notification templates. Each returns subject, plain-text
// body and HTML body.

func VendorApproval(businessName, contactPerson, portalURL string) (string, string, string) {
	subject := "Vendor Application Approved - Satisfy Platform"

	body := fmt.Sprintf(`Dear %s,

Congratulations! Your vendor application for %s has been APPROVED.

You can now access the Satisfy Vendor Portal to manage your products and view customer feedback.

Vendor Portal: %s

What you can do now:
- Add and manage your product listings
- View customer likes and dislikes
- Track product performance
- Update product information anytime

If you have any questions, please contact our support team.

Best regards,
The Satisfy Team

---
This is an automated message from Satisfy Platform.`, contactPerson, businessName, portalURL)

	htmlBody := wrapHTML("#00704A", "Vendor Application Approved!", fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Congratulations! Your vendor application for <strong>%s</strong> has been APPROVED.</p>
		<div style="background: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 20px 0;">
			<p style="margin: 0;"><strong>Access your portal:</strong></p>
			<p style="margin: 5px 0;"><a href="%s" style="color: #00704A;">%s</a></p>
		</div>
		<h3>What you can do now:</h3>
		<ul>
			<li>Add and manage your product listings</li>
			<li>View customer likes and dislikes</li>
			<li>Track product performance</li>
			<li>Update product information anytime</li>
		</ul>
		<p>If you have any questions, please contact our support team.</p>`,
		contactPerson, businessName, portalURL, portalURL))

	return subject, body, htmlBody
}

func VendorRejection(businessName, contactPerson, reason string) (string, string, string) {
	subject := "Vendor Application Status - Satisfy Platform"

	body := fmt.Sprintf(`Dear %s,

Thank you for your interest in joining Satisfy with %s.

After careful review, we regret to inform you that we cannot approve your application at this time.

Reason: %s

If you have any questions or would like to discuss this decision, please contact our support team.

Best regards,
The Satisfy Team

---
This is an automated message from Satisfy Platform.`, contactPerson, businessName, reason)

	htmlBody := wrapHTML("#00704A", "Vendor Application Status", fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Thank you for your interest in joining Satisfy with <strong>%s</strong>.</p>
		<p>After careful review, we regret to inform you that we cannot approve your application at this time.</p>
		<div style="background: #ffebee; padding: 15px; border-left: 4px solid #f44336; margin: 20px 0;">
			<p style="margin: 0;"><strong>Reason:</strong> %s</p>
		</div>
		<p>If you have any questions or would like to discuss this decision, please contact our support team.</p>`,
		contactPerson, businessName, reason))

	return subject, body, htmlBody
}

func VendorBlocked(businessName, contactPerson, reason string) (string, string, string) {
	subject := "Account Blocked - Satisfy Platform"

	body := fmt.Sprintf(`Dear %s,

Your vendor account for %s has been blocked by an administrator.

Reason: %s

Your vendor portal access has been suspended. Please contact support for more information.

Best regards,
The Satisfy Admin Team

---
This is an automated message from Satisfy Platform.`, contactPerson, businessName, reason)

	htmlBody := wrapHTML("#d32f2f", "Account Blocked", fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Your vendor account for <strong>%s</strong> has been blocked by an administrator.</p>
		<div style="background: #ffebee; padding: 15px; border-left: 4px solid #d32f2f; margin: 20px 0;">
			<p style="margin: 0;"><strong>Reason:</strong> %s</p>
		</div>
		<p>Your vendor portal access has been suspended. Please contact support for more information.</p>`,
		contactPerson, businessName, reason))

	return subject, body, htmlBody
}

func VendorSuspended(businessName, contactPerson, reason string) (string, string, string) {
	subject := "Account Suspended - Satisfy Platform"

	body := fmt.Sprintf(`Dear %s,

Your vendor account for %s has been temporarily suspended.

Reason: %s

Your vendor portal access is paused. Please resolve the issue to restore access.
This is a temporary measure and can be resolved.

If you have any questions, please contact support.

Best regards,
The Satisfy Admin Team

---
This is an automated message from Satisfy Platform.`, contactPerson, businessName, reason)

	htmlBody := wrapHTML("#ff9800", "Account Suspended", fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Your vendor account for <strong>%s</strong> has been temporarily suspended.</p>
		<div style="background: #fff3e0; padding: 15px; border-left: 4px solid #ff9800; margin: 20px 0;">
			<p style="margin: 0;"><strong>Reason:</strong> %s</p>
		</div>
		<p>Your vendor portal access is paused. Please resolve the issue to restore access.</p>
		<p><em>This is a temporary measure and can be resolved.</em></p>`,
		contactPerson, businessName, reason))

	return subject, body, htmlBody
}

func VendorRestored(businessName, contactPerson, portalURL string) (string, string, string) {
	subject := "Account Restored - Satisfy Platform"

	body := fmt.Sprintf(`Dear %s,

Good news! Your vendor account for %s has been restored.

Your vendor portal access is now active again. You can continue managing your products.

Thank you for resolving the issue.

Vendor Portal: %s

Best regards,
The Satisfy Admin Team

---
This is an automated message from Satisfy Platform.`, contactPerson, businessName, portalURL)

	htmlBody := wrapHTML("#4caf50", "Account Restored", fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Good news! Your vendor account for <strong>%s</strong> has been restored.</p>
		<div style="background: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 20px 0;">
			<p style="margin: 0;">Your vendor portal access is now active again.</p>
			<p style="margin: 5px 0;"><a href="%s" style="color: #00704A;">Access Vendor Portal</a></p>
		</div>
		<p>Thank you for resolving the issue.</p>`,
		contactPerson, businessName, portalURL))

	return subject, body, htmlBody
}

func wrapHTML(headerColor, heading, content string) string {
	return fmt.Sprintf(`
	<html>
	<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
		<div style="max-width: 600px; margin: 0 auto; padding: 20px; background: #f7f7f7;">
			<div style="background: %s; color: white; padding: 20px; border-radius: 8px 8px 0 0;">
				<h1 style="margin: 0;">Satisfy</h1>
			</div>
			<div style="background: white; padding: 30px; border-radius: 0 0 8px 8px;">
				<h2 style="color: %s;">%s</h2>
				%s
				<p>Best regards,<br><strong>The Satisfy Team</strong></p>
				<hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
				<p style="font-size: 12px; color: #666;">This is an automated message from Satisfy Platform.</p>
			</div>
		</div>
	</body>
	</html>`, headerColor, headerColor, heading, content)
}
