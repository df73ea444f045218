package integrity

import (
	"errors"

	"asset-core/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/mappings", h.HandleMappingCheck)
	group.Get("/duplicates", h.HandleDuplicateCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/reconcile", h.HandleReconcilePlan)
	group.Post("/reconcile", h.HandleReconcileApply)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Structure, Mappings, Duplicates, Schema).
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	if mappings, err := h.service.CheckMappings(ctx); err != nil {
		report["mappings"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["mappings"] = mappings
	}

	report["duplicates"] = h.service.CheckDuplicates()

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks if the required folder structure exists in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleMappingCheck compares the identity map with the bucket.
// @Summary Check Mappings
// @Description Lists mapped paths without objects and objects without identities.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.MappingReport "Mapping Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/mappings [get]
func (h *Handler) HandleMappingCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckMappings(c.Context())
	if err != nil {
		l.Error("Mapping check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.Missing) > 0 {
		l.Warn("Mapped assets missing from storage", zap.Strings("missing", report.Missing))
	}
	return c.JSON(report)
}

// HandleDuplicateCheck lists identities with several paths.
// @Summary Check Duplicate Identities
// @Tags integrity
// @Produce json
// @Success 200 {array} mapper.Inconsistency
// @Router /integrity/duplicates [get]
func (h *Handler) HandleDuplicateCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckDuplicates())
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Database Schema
// @Description Checks that the asset_paths table matches the mapper model.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting schema check")

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleReconcilePlan reports how the map, the manifest and the bucket disagree.
// @Summary Plan Reconciliation
// @Description Joins the identity map, the stored manifest and the bucket by path. With a path query only that path is reported.
// @Tags integrity
// @Produce json
// @Param path query string false "Single asset path"
// @Success 200 {object} reconcile.Plan "Reconcile Plan"
// @Failure 501 {object} map[string]string "No manifest store"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/reconcile [get]
func (h *Handler) HandleReconcilePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if p := c.Query("path"); p != "" {
		result, err := h.service.ReconcilePath(c.Context(), p)
		if err != nil {
			return h.reconcileError(c, l, err)
		}
		return c.JSON(result)
	}

	plan, err := h.service.PlanReconcile(c.Context())
	if err != nil {
		return h.reconcileError(c, l, err)
	}
	return c.JSON(plan)
}

// HandleReconcileApply executes a reconciliation.
// @Summary Apply Reconciliation
// @Description Adopts persisted mappings, assigns identities to unmapped objects and saves the manifest. Requires confirm=true.
// @Tags integrity
// @Produce json
// @Param confirm query boolean true "Confirm mutations"
// @Success 200 {object} map[string]interface{} "Summary and executed count"
// @Failure 400 {object} map[string]string "Not confirmed"
// @Failure 403 {object} map[string]string "Read-only profile"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/reconcile [post]
func (h *Handler) HandleReconcileApply(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "confirm=true is required"})
	}

	plan, executed, err := h.service.ApplyReconcile(c.Context())
	if err != nil {
		return h.reconcileError(c, l, err)
	}
	return c.JSON(fiber.Map{
		"summary":  plan.Summary,
		"executed": executed,
	})
}

func (h *Handler) reconcileError(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, ErrNoManifestStore):
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrReadOnly):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
