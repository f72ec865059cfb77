package handlers

import (
	"errors"

	"financehub/internal/dto"
	"financehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SavingGoalHandler struct {
	goalService *service.SavingGoalService
	logger      *zap.Logger
}

func NewSavingGoalHandler(goalService *service.SavingGoalService, logger *zap.Logger) *SavingGoalHandler {
	return &SavingGoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// Create godoc
// @Summary Create a saving goal
// @Tags saving-goals
// @Accept json
// @Produce json
// @Param request body dto.SavingGoalRequest true "Saving goal request"
// @Security Bearer
// @Success 201 {object} dto.SavingGoalResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/saving-goals [post]
func (h *SavingGoalHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.SavingGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.goalService.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrDuplicateName):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Saving goal already exists",
			})
		}
		h.logger.Error("Failed to create saving goal", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create saving goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List saving goals
// @Tags saving-goals
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.SavingGoalResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/saving-goals [get]
func (h *SavingGoalHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.goalService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list saving goals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list saving goals",
		})
	}

	return c.JSON(resp)
}

// Update godoc
// @Summary Update a saving goal
// @Tags saving-goals
// @Accept json
// @Produce json
// @Param id path string true "Saving goal ID"
// @Param request body dto.SavingGoalRequest true "Saving goal request"
// @Security Bearer
// @Success 200 {object} dto.SavingGoalResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/saving-goals/{id} [put]
func (h *SavingGoalHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid saving goal ID",
		})
	}

	var req dto.SavingGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.goalService.Update(c.Context(), userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Saving goal not found",
			})
		case errors.Is(err, service.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrDuplicateName):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Saving goal already exists",
			})
		}
		h.logger.Error("Failed to update saving goal", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update saving goal",
		})
	}

	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a saving goal
// @Description Delete a saving goal; linked savings keep their snapshot fields
// @Tags saving-goals
// @Produce json
// @Param id path string true "Saving goal ID"
// @Security Bearer
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/saving-goals/{id} [delete]
func (h *SavingGoalHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid saving goal ID",
		})
	}

	if err := h.goalService.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Saving goal not found",
			})
		}
		h.logger.Error("Failed to delete saving goal", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete saving goal",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
