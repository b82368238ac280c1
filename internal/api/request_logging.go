package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func zapRequestFields(c *fiber.Ctx, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	}
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if user, ok := currentUser(c); ok {
		fields = append(fields, zap.String("user", user.Username))
	}
	return fields
}
