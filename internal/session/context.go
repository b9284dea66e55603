package session

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated caller's identity for the current request:
// the user id and the effective role derived at login time.
type Session struct {
	UserID uint
	Role   string
}

// FromContext extracts the session from the verified JWT in Fiber locals.
func FromContext(c *fiber.Ctx) (Session, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Session{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Session{}, errors.New("missing sub claim")
	}

	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Session{}, errors.New("malformed sub claim")
	}

	role, _ := claims["role"].(string)

	return Session{UserID: uint(id), Role: role}, nil
}

// Subject formats a user id as a JWT sub claim.
func Subject(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
