package handlers

import (
	"fmt"
	"strconv"
	"time"

	"financehub/internal/models"
	"financehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewDashboardHandler(reportService *service.ReportService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// moduleKinds maps the dashboard path segment onto a transaction kind.
// Savings have their own endpoint with a richer payload.
var moduleKinds = map[string]models.TransactionKind{
	"income":   models.KindIncome,
	"fixed":    models.KindFixed,
	"variable": models.KindVariable,
}

// General godoc
// @Summary General dashboard
// @Description Month KPIs, balance delta, trailing series, expense breakdown and top expenses
// @Tags dashboard
// @Produce json
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Security Bearer
// @Success 200 {object} dto.GeneralDashboard
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) General(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	year, month, err := queryPeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp, err := h.reportService.GeneralDashboard(c.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build dashboard",
		})
	}

	return c.JSON(resp)
}

// Savings godoc
// @Summary Savings dashboard
// @Description Saving totals, goal progress, type distribution and monthly series
// @Tags dashboard
// @Produce json
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Security Bearer
// @Success 200 {object} dto.SavingOverview
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/dashboard/savings [get]
func (h *DashboardHandler) Savings(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	year, month, err := queryPeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp, err := h.reportService.SavingOverview(c.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("Failed to build savings dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build savings dashboard",
		})
	}

	return c.JSON(resp)
}

// Module godoc
// @Summary Module dashboard
// @Description Month total with delta, trailing series, category breakdown and daily series for one kind
// @Tags dashboard
// @Produce json
// @Param kind path string true "Module: income, fixed or variable"
// @Param year query int false "Year (defaults to current)"
// @Param month query int false "Month 1-12 (defaults to current)"
// @Security Bearer
// @Success 200 {object} dto.ModuleDashboard
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/dashboard/{kind} [get]
func (h *DashboardHandler) Module(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	kind, ok := moduleKinds[c.Params("kind")]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown dashboard module",
		})
	}

	year, month, err := queryPeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp, err := h.reportService.ModuleDashboard(c.Context(), userID, kind, year, month)
	if err != nil {
		h.logger.Error("Failed to build module dashboard",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build module dashboard",
		})
	}

	return c.JSON(resp)
}

// queryPeriod reads year/month query params, defaulting to the current month.
// A param that is present but not a number is an error, not a silent default.
func queryPeriod(c *fiber.Ctx) (int, int, error) {
	now := time.Now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}

	if err := service.ValidatePeriod(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidPeriod, key)
	}
	return value, nil
}
