package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// success renders the success envelope shared by every endpoint.
func success(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// created renders the success envelope with a 201 status.
func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// pagination converts page/page_size query params into limit/offset.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	return pageSize, (page - 1) * pageSize
}
