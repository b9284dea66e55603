package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vpa-project/vpa-backend/internal/dto"
	"github.com/vpa-project/vpa-backend/internal/services"
	"github.com/vpa-project/vpa-backend/internal/session"
)

type LotHandler struct {
	lotService *services.LotService
}

func NewLotHandler(lotService *services.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

// Dashboard lists the caller's lots, filtered by the optional search query
// parameter. A caller without a manager profile gets an empty list.
func (h *LotHandler) Dashboard(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	lots, err := h.lotService.ListLots(sess.UserID, c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list lots",
		})
	}

	return c.JSON(fiber.Map{"lots": lots})
}

func (h *LotHandler) CreateLot(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateLotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	lot, err := h.lotService.CreateLot(sess.UserID, &req)
	if err != nil {
		return h.lotError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(lot)
}

func (h *LotHandler) GetLot(c *fiber.Ctx) error {
	sess, lotID, err := h.sessionAndLotID(c)
	if err != nil {
		return err
	}

	lot, err := h.lotService.GetLot(sess.UserID, lotID)
	if err != nil {
		return h.lotError(c, err)
	}

	return c.JSON(lot)
}

func (h *LotHandler) UpdateLot(c *fiber.Ctx) error {
	sess, lotID, err := h.sessionAndLotID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateLotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	lot, err := h.lotService.UpdateLot(sess.UserID, lotID, &req)
	if err != nil {
		return h.lotError(c, err)
	}

	return c.JSON(lot)
}

func (h *LotHandler) DeleteLot(c *fiber.Ctx) error {
	sess, lotID, err := h.sessionAndLotID(c)
	if err != nil {
		return err
	}

	if err := h.lotService.DeleteLot(sess.UserID, lotID); err != nil {
		return h.lotError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Lot deleted"})
}

func (h *LotHandler) ListSpots(c *fiber.Ctx) error {
	sess, lotID, err := h.sessionAndLotID(c)
	if err != nil {
		return err
	}

	spots, err := h.lotService.ListSpots(sess.UserID, lotID)
	if err != nil {
		return h.lotError(c, err)
	}

	return c.JSON(fiber.Map{"spots": spots})
}

// ImportLots accepts a multipart xlsx upload and bulk-creates lots.
func (h *LotHandler) ImportLots(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "File is required",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to open file",
		})
	}
	defer f.Close()

	resp, err := h.lotService.ImportLots(sess.UserID, f)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFile) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return h.lotError(c, err)
	}

	return c.JSON(resp)
}

// AdminListLots returns every lot across all managers.
func (h *LotHandler) AdminListLots(c *fiber.Ctx) error {
	lots, err := h.lotService.AdminListLots()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list lots",
		})
	}

	return c.JSON(fiber.Map{"lots": lots})
}

// sessionAndLotID pulls the session and the :id path parameter. Errors are
// *fiber.Error values rendered by the app's error handler.
func (h *LotHandler) sessionAndLotID(c *fiber.Ctx) (session.Session, uint, error) {
	sess, err := session.FromContext(c)
	if err != nil {
		return session.Session{}, 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	lotID, err := c.ParamsInt("id")
	if err != nil || lotID <= 0 {
		return session.Session{}, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid lot id")
	}

	return sess, uint(lotID), nil
}

func (h *LotHandler) lotError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotManager):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrLotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
}
