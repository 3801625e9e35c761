package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session not found or expired")
)

type AuthService struct {
	db          DatabaseQuerier
	redisClient *redis.Client
	config      *config.AuthConfig
	logger      *logrus.Logger
	jwtSecret   []byte
}

func NewAuthService(db DatabaseQuerier, redisClient *redis.Client, cfg *config.AuthConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		logger:      logger,
		jwtSecret:   []byte(cfg.JWTSecret),
	}
}

// AdminLogin checks the credentials against admin_accounts and mints a
// session token.
func (s *AuthService) AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (string, *models.AdminAccount, error) {
	var admin models.AdminAccount
	err := s.db.QueryRow(ctx, `
		SELECT id, username, password, role, name, created_at, updated_at
		FROM admin_accounts WHERE username = $1`, req.Username).
		Scan(&admin.ID, &admin.Username, &admin.Password, &admin.Role,
			&admin.Name, &admin.CreatedAt, &admin.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin.Password != req.Password {
		return "", nil, ErrInvalidCredentials
	}

	claims := &models.SessionClaims{
		SessionID:     uuid.New(),
		Role:          admin.Role,
		AdminUsername: admin.Username,
		AdminName:     admin.Name,
	}

	token, err := s.issueToken(claims)
	if err != nil {
		return "", nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"username": admin.Username,
		"role":     admin.Role,
	}).Info("Admin logged in")

	return token, &admin, nil
}

// VendorLogin authenticates a vendor by business name. There is no vendor
// password store; an unknown name auto-registers an approved vendor account
// so the portal works out of the box. Blocked and suspended vendors still get
// a token; middleware turns their status into the lockout response.
func (s *AuthService) VendorLogin(ctx context.Context, businessName string) (string, *models.VendorAccount, error) {
	query := fmt.Sprintf("SELECT %s FROM vendor_accounts WHERE business_name = $1", vendorColumns)

	vendor, err := scanVendor(s.db.QueryRow(ctx, query, businessName))
	if errors.Is(err, pgx.ErrNoRows) {
		placeholder := fmt.Sprintf("%s@vendors.satisfy.local", slugify(businessName))
		insert := fmt.Sprintf(`
			INSERT INTO vendor_accounts (business_name, email, status)
			VALUES ($1, $2, $3)
			RETURNING %s`, vendorColumns)
		vendor, err = scanVendor(s.db.QueryRow(ctx, insert, businessName, placeholder, models.VendorStatusApproved))
		if err != nil {
			return "", nil, fmt.Errorf("failed to auto-register vendor: %w", err)
		}
		s.logger.WithField("business_name", businessName).Info("Vendor auto-registered on first login")
	} else if err != nil {
		return "", nil, fmt.Errorf("failed to look up vendor: %w", err)
	}

	claims := &models.SessionClaims{
		SessionID:          uuid.New(),
		Role:               models.RoleVendor,
		VendorID:           vendor.ID,
		VendorBusinessName: vendor.BusinessName,
	}

	token, err := s.issueToken(claims)
	if err != nil {
		return "", nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"vendor_id":     vendor.ID,
		"business_name": vendor.BusinessName,
		"status":        vendor.Status,
	}).Info("Vendor logged in")

	return token, vendor, nil
}

func slugify(name string) string {
	slug := make([]rune, 0, len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug = append(slug, r)
		case r == ' ', r == '-', r == '_':
			slug = append(slug, '-')
		}
	}
	return string(slug)
}

func (s *AuthService) issueToken(claims *models.SessionClaims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.SessionTTL)),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "github.com/satisfyhq/satisfy",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	// Session record in Redis so logout can revoke before expiry.
	sessionKey := fmt.Sprintf("session:%s", claims.SessionID.String())
	if err := s.redisClient.Set(context.Background(), sessionKey, tokenString, s.config.SessionTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to store session in Redis")
		// Don't fail login if Redis is down
	}

	return tokenString, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sessionKey := fmt.Sprintf("session:%s", claims.SessionID.String())
	exists, err := s.redisClient.Exists(context.Background(), sessionKey).Result()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to check session in Redis")
		// Continue validation even if Redis is down
	} else if exists == 0 {
		return nil, ErrSessionExpired
	}

	return claims, nil
}

func (s *AuthService) RevokeSession(sessionID uuid.UUID) error {
	sessionKey := fmt.Sprintf("session:%s", sessionID.String())
	if err := s.redisClient.Del(context.Background(), sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ChangePassword updates an admin account after re-checking the current
// password.
func (s *AuthService) ChangePassword(ctx context.Context, username string, req *models.ChangePasswordRequest) error {
	var current string
	err := s.db.QueryRow(ctx,
		"SELECT password FROM admin_accounts WHERE username = $1", username).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if current != req.CurrentPassword {
		return ErrInvalidCredentials
	}

	_, err = s.db.Exec(ctx,
		"UPDATE admin_accounts SET password = $2, updated_at = NOW() WHERE username = $1",
		username, req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithField("username", username).Info("Admin password changed")
	return nil
}
