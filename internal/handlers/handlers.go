package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Product        *ProductHandler
	Interaction    *InteractionHandler
	Recommendation *RecommendationHandler
	Auth           *AuthHandler
	Vendor         *VendorHandler
	Admin          *AdminHandler
}

func New(logger *logrus.Logger, services *services.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Product:        NewProductHandler(logger, services.Product),
		Interaction:    NewInteractionHandler(logger, services.Interaction),
		Recommendation: NewRecommendationHandler(logger, services.Recommendation),
		Auth:           NewAuthHandler(logger, services.Auth),
		Vendor:         NewVendorHandler(logger, services.Product, services.Interaction),
		Admin:          NewAdminHandler(logger, services.Customer, services.Vendor),
	}
}
