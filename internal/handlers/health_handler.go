package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vpa-project/vpa-backend/internal/database"
	"github.com/vpa-project/vpa-backend/internal/dto"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}

// Landing is the API root.
func (h *HealthHandler) Landing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "vpa-backend",
		"version": "1.0",
	})
}
