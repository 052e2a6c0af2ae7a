package questions

import (
	"record-reconciler/core/reconcile"
	"record-reconciler/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the question reconciliation endpoints into the application.
type Feature struct {
	service *Service
}

// NewFeature creates the questions feature.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Feature {
	return &Feature{
		service: NewService(db, client, bucket, cfg, logger),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "questions"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
