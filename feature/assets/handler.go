package assets

import (
	"errors"

	assetcache "asset-core/core/assets"
	"asset-core/core/logger"
	"asset-core/core/mapper"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the asset cache.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the asset routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/assets")
	group.Get("/", h.HandleOverview)
	group.Get("/pins", h.HandleListPins)
	group.Post("/pins", h.HandlePin)
	group.Delete("/pins/:id", h.HandleUnpin)
	group.Post("/refresh", h.HandleRefresh)
}

// PinRequest is the body of POST /assets/pins.
type PinRequest struct {
	Path string `json:"path"`
}

// HandleOverview returns cache statistics.
// @Summary Cache Overview
// @Description Returns cache statistics and every resident entry with its reference count.
// @Tags assets
// @Produce json
// @Success 200 {object} Overview
// @Router /assets [get]
func (h *Handler) HandleOverview(c *fiber.Ctx) error {
	return c.JSON(h.service.Overview())
}

// HandleListPins lists active pins.
// @Summary List Pins
// @Tags assets
// @Produce json
// @Success 200 {array} Pin
// @Router /assets/pins [get]
func (h *Handler) HandleListPins(c *fiber.Ctx) error {
	return c.JSON(h.service.Pins())
}

// HandlePin loads an asset and pins it.
// @Summary Pin Asset
// @Description Loads the asset at path into the cache and holds a reference until released.
// @Tags assets
// @Accept json
// @Produce json
// @Param request body PinRequest true "Asset path"
// @Success 201 {object} Pin
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unmapped path"
// @Failure 503 {object} map[string]string "Cache full"
// @Failure 502 {object} map[string]string "Load failure"
// @Router /assets/pins [post]
func (h *Handler) HandlePin(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req PinRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	pin, err := h.service.PinPath(c.Context(), req.Path)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, mapper.ErrUnmappedIdentity):
			status = fiber.StatusNotFound
		case errors.Is(err, assetcache.ErrCacheFull):
			status = fiber.StatusServiceUnavailable
		case errors.Is(err, assetcache.ErrLoadFailure):
			status = fiber.StatusBadGateway
		}
		l.Warn("Pin failed", zap.String("path", req.Path), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Asset pinned", zap.String("pin", pin.ID), zap.String("path", pin.Path))
	return c.Status(fiber.StatusCreated).JSON(pin)
}

// HandleUnpin releases a pin.
// @Summary Release Pin
// @Tags assets
// @Param id path string true "Pin ID"
// @Success 204
// @Failure 404 {object} map[string]string "Pin not found"
// @Router /assets/pins/{id} [delete]
func (h *Handler) HandleUnpin(c *fiber.Ctx) error {
	if err := h.service.Unpin(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRefresh evicts unreferenced entries.
// @Summary Refresh Cache
// @Description Evicts every entry with no remaining references.
// @Tags assets
// @Produce json
// @Success 200 {object} map[string]int
// @Router /assets/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	evicted := h.service.Refresh()
	logger.WithRayID(h.service.logger, c).Info("Cache refreshed", zap.Int("evicted", evicted))
	return c.JSON(fiber.Map{"evicted": evicted})
}
