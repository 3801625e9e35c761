package services

import (
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/ai"
	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/internal/database"
	"github.com/satisfyhq/satisfy/internal/email"
	"github.com/satisfyhq/satisfy/internal/messaging"
)

type Services struct {
	Auth           *AuthService
	Health         *HealthService
	Product        *ProductService
	Interaction    *InteractionService
	Customer       *CustomerService
	Vendor         *VendorService
	Recommendation *RecommendationService
	Publisher      messaging.InteractionPublisher
	Sender         email.Sender
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(db.PG, db.Redis, &cfg.Auth, logger)
	healthService := NewHealthService(cfg, logger, db)
	productService := NewProductService(db.PG, logger)

	var publisher messaging.InteractionPublisher = messaging.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = messaging.NewKafkaPublisher(&cfg.Kafka, logger)
	}
	interactionService := NewInteractionService(db.PG, publisher, logger)

	sender := email.NewSender(&cfg.Email, logger)
	customerService := NewCustomerService(db.PG, logger)
	vendorService := NewVendorService(db.PG, sender, &cfg.Vendor, logger)

	generator := ai.NewOllamaClient(&cfg.AI, logger)
	recommendationService, err := NewRecommendationService(productService, generator, &cfg.AI, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:           authService,
		Health:         healthService,
		Product:        productService,
		Interaction:    interactionService,
		Customer:       customerService,
		Vendor:         vendorService,
		Recommendation: recommendationService,
		Publisher:      publisher,
		Sender:         sender,
	}, nil
}

// Close releases service-held resources that outlive a request.
func (s *Services) Close() error {
	if s.Publisher != nil {
		return s.Publisher.Close()
	}
	return nil
}
