package handlers

import (
	"errors"

	"financehub/internal/dto"
	"financehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
	logger        *zap.Logger
}

func NewPaymentMethodHandler(methodService *service.PaymentMethodService, logger *zap.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		methodService: methodService,
		logger:        logger,
	}
}

// Create godoc
// @Summary Create a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param request body dto.PaymentMethodRequest true "Payment method request"
// @Security Bearer
// @Success 201 {object} dto.PaymentMethodResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/payment-methods [post]
func (h *PaymentMethodHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.methodService.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrDuplicateName):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Payment method already exists",
			})
		}
		h.logger.Error("Failed to create payment method", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create payment method",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List payment methods
// @Tags payment-methods
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.PaymentMethodResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/payment-methods [get]
func (h *PaymentMethodHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.methodService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list payment methods", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list payment methods",
		})
	}

	return c.JSON(resp)
}

// Update godoc
// @Summary Update a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param id path string true "Payment method ID"
// @Param request body dto.PaymentMethodRequest true "Payment method request"
// @Security Bearer
// @Success 200 {object} dto.PaymentMethodResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/payment-methods/{id} [put]
func (h *PaymentMethodHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment method ID",
		})
	}

	var req dto.PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.methodService.Update(c.Context(), userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment method not found",
			})
		case errors.Is(err, service.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrDuplicateName):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Payment method already exists",
			})
		}
		h.logger.Error("Failed to update payment method", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update payment method",
		})
	}

	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a payment method
// @Tags payment-methods
// @Produce json
// @Param id path string true "Payment method ID"
// @Security Bearer
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/payment-methods/{id} [delete]
func (h *PaymentMethodHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment method ID",
		})
	}

	if err := h.methodService.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment method not found",
			})
		}
		h.logger.Error("Failed to delete payment method", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete payment method",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
