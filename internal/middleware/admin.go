package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vpa-project/vpa-backend/internal/config"
	"github.com/vpa-project/vpa-backend/internal/dto"
	"github.com/vpa-project/vpa-backend/internal/models"
	"github.com/vpa-project/vpa-backend/internal/session"
	"gorm.io/gorm"
)

// AdminRequired admits callers whose email is on the configured admin list
// or whose user holds the admin role membership.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		sess, err := session.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.Preload("Roles").First(&user, sess.UserID).Error; err == nil {
			if contains(adminEmails, user.Email) || user.HasRole(models.RoleAdmin) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
