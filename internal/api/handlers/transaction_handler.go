package handlers

import (
	"errors"

	"financehub/internal/dto"
	"financehub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// Create godoc
// @Summary Create a transaction
// @Description Record an income, fixed expense, variable expense or saving
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction request"
// @Security Bearer
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.txService.Create(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to create transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create transaction",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List transactions
// @Description List transactions filtered by kind, period and search text
// @Tags transactions
// @Produce json
// @Param kind query string false "Transaction kind: INCOME, FIXED, VARIABLE or SAVING"
// @Param year query int false "Year filter"
// @Param month query int false "Month filter (1-12)"
// @Param q query string false "Search text"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Security Bearer
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	params := service.ListParams{
		Kind:     c.Query("kind"),
		Year:     c.QueryInt("year", 0),
		Month:    c.QueryInt("month", 0),
		Query:    c.Query("q"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	}

	resp, err := h.txService.List(c.Context(), userID, params)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrInvalidPeriod) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list transactions",
		})
	}

	return c.JSON(resp)
}

// Get godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction ID",
		})
	}

	resp, err := h.txService.Get(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Transaction not found",
			})
		}
		h.logger.Error("Failed to get transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get transaction",
		})
	}

	return c.JSON(resp)
}

// Update godoc
// @Summary Update a transaction
// @Description Update a transaction; its kind cannot be changed
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction request"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction ID",
		})
	}

	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.txService.Update(c.Context(), userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Transaction not found",
			})
		case errors.Is(err, service.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to update transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update transaction",
		})
	}

	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction ID",
		})
	}

	if err := h.txService.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Transaction not found",
			})
		}
		h.logger.Error("Failed to delete transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete transaction",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
