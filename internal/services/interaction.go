package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/messaging"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type InteractionService struct {
	db        DatabaseQuerier
	publisher messaging.InteractionPublisher
	logger    *logrus.Logger
}

func NewInteractionService(db DatabaseQuerier, publisher messaging.InteractionPublisher, logger *logrus.Logger) *InteractionService {
	return &InteractionService{db: db, publisher: publisher, logger: logger}
}

// RecordInteraction stores one like/dislike and publishes it to the event
// stream. Publish failures are logged, not surfaced: the write of record is
// PostgreSQL.
func (s *InteractionService) RecordInteraction(ctx context.Context, req *models.InteractionRequest) (*models.ProductInteraction, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", req.ProductID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	var interaction models.ProductInteraction
	err = s.db.QueryRow(ctx, `
		INSERT INTO product_interactions (product_id, interaction_type, customer_email)
		VALUES ($1, $2, $3)
		RETURNING id, product_id, interaction_type, customer_email, created_at`,
		req.ProductID, req.Type, req.CustomerEmail).
		Scan(&interaction.ID, &interaction.ProductID, &interaction.Type,
			&interaction.CustomerEmail, &interaction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	event := messaging.InteractionEvent{
		InteractionID: interaction.ID,
		ProductID:     interaction.ProductID,
		Type:          interaction.Type,
		Timestamp:     interaction.CreatedAt,
	}
	if interaction.CustomerEmail != nil {
		event.CustomerEmail = *interaction.CustomerEmail
	}
	if err := s.publisher.PublishInteraction(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"interaction_id": interaction.ID,
			"product_id":     interaction.ProductID,
		}).Warn("Failed to publish interaction event")
	}

	return &interaction, nil
}

// VendorProductStats aggregates like/dislike counts for one vendor's catalog,
// most-liked first.
func (s *InteractionService) VendorProductStats(ctx context.Context, vendor string) ([]models.ProductStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.category,
		       COUNT(*) FILTER (WHERE i.interaction_type = 'like') AS likes,
		       COUNT(*) FILTER (WHERE i.interaction_type = 'dislike') AS dislikes
		FROM products p
		LEFT JOIN product_interactions i ON i.product_id = p.id
		WHERE p.vendor = $1
		GROUP BY p.id, p.name, p.category
		ORDER BY likes DESC, p.id ASC`, vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction stats: %w", err)
	}
	defer rows.Close()

	stats := []models.ProductStats{}
	for rows.Next() {
		var st models.ProductStats
		if err := rows.Scan(&st.ProductID, &st.Name, &st.Category, &st.Likes, &st.Dislikes); err != nil {
			return nil, fmt.Errorf("failed to scan interaction stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
