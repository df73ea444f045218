package mappings

import (
	"errors"

	"asset-core/core/identity"
	"asset-core/core/logger"
	"asset-core/core/mapper"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for identity mappings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the mapping routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/mappings")
	group.Get("/", h.HandleList)
	group.Put("/", h.HandleSet)
	group.Post("/export", h.HandleExport)
	group.Post("/import", h.HandleImport)
	group.Get("/:guid", h.HandleLookup)
}

// SetRequest is the body of PUT /mappings.
type SetRequest struct {
	Path string `json:"path"`
	GUID string `json:"guid,omitempty"`
}

// HandleList lists every mapping.
// @Summary List Mappings
// @Tags mappings
// @Produce json
// @Success 200 {array} mapper.Entry
// @Router /mappings [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// HandleLookup returns the path mapped to a GUID.
// @Summary Lookup Mapping
// @Tags mappings
// @Produce json
// @Param guid path string true "Asset GUID"
// @Success 200 {object} mapper.Entry
// @Failure 400 {object} map[string]string "Invalid GUID"
// @Failure 404 {object} map[string]string "Unmapped identity"
// @Router /mappings/{guid} [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	id, err := identity.Parse(c.Params("guid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	entry, err := h.service.Lookup(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entry)
}

// HandleSet registers a path.
// @Summary Set Mapping
// @Description Registers a path. Without a guid an identity is minted, or the existing one returned.
// @Tags mappings
// @Accept json
// @Produce json
// @Param request body SetRequest true "Mapping"
// @Success 200 {object} mapper.Entry
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Read-only profile"
// @Failure 409 {object} map[string]string "Path mapped to another identity"
// @Router /mappings [put]
func (h *Handler) HandleSet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SetRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	id := identity.Nil
	if req.GUID != "" {
		var err error
		if id, err = identity.Parse(req.GUID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	entry, err := h.service.Set(req.Path, id)
	switch {
	case errors.Is(err, ErrReadOnly):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Mapping set", zap.String("path", entry.Path), zap.String("guid", entry.GUID.String()))
	return c.JSON(entry)
}

// HandleExport persists the map.
// @Summary Export Mappings
// @Tags mappings
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 403 {object} map[string]string "Read-only profile"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mappings/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	n, err := h.service.Export(c.Context())
	if errors.Is(err, ErrReadOnly) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Mapping export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"entries": n})
}

// HandleImport merges the persisted manifest.
// @Summary Import Mappings
// @Tags mappings
// @Produce json
// @Success 200 {object} mapper.Report
// @Failure 404 {object} map[string]string "No manifest"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mappings/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Import(c.Context())
	if errors.Is(err, mapper.ErrManifestNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Mapping import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
