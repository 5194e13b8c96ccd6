package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TrimTrailingSlash permanently redirects /path/ to /path, keeping the query.
func TrimTrailingSlash() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := c.Path()
		if len(p) <= 1 || !strings.HasSuffix(p, "/") {
			return c.Next()
		}
		// Collapse leading slashes so //host/ cannot become an off-site redirect.
		target := "/" + strings.Trim(p, "/")
		if q := string(c.Request().URI().QueryString()); q != "" {
			target += "?" + q
		}
		return c.Redirect(target, fiber.StatusMovedPermanently)
	}
}
