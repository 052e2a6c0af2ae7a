package questions

import (
	"errors"
	"net/url"

	"record-reconciler/core/logger"
	"record-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for question reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconcile")
	group.Get("/questions", h.HandleReconcileQuestions)
	group.Get("/questions/csv/:object", h.HandleReconcileCSV)
}

// HandleReconcileQuestions reconciles the question bank against the model
// results table and returns the report. ?refresh=true bypasses the cache.
func (h *Handler) HandleReconcileQuestions(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Reconcile(c.Context(), c.QueryBool("refresh"))
	if err != nil {
		return renderError(c, l, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comparison completed successfully",
		"results": report,
	})
}

// HandleReconcileCSV reconciles an uploaded CSV object against the model
// results table.
func (h *Handler) HandleReconcileCSV(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	object, err := urlDecodeParam(c, "object")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Configuration error",
			"error":   "invalid object name",
		})
	}

	report, err := h.service.ReconcileCSV(c.Context(), object)
	if err != nil {
		return renderError(c, l, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comparison completed successfully",
		"results": report,
	})
}

// renderError maps service failures onto the response envelope: broken
// configuration is the caller's fault, everything else is ours.
func renderError(c *fiber.Ctx, l *zap.Logger, err error) error {
	if errors.Is(err, reconcile.ErrInvalidConfig) {
		l.Warn("Reconciliation rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Configuration error",
			"error":   err.Error(),
		})
	}

	l.Error("Reconciliation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// urlDecodeParam unescapes a path parameter so object names with slashes
// can be passed percent-encoded.
func urlDecodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
