package middleware

import (
	"github.com/cargotrack/database"
	"github.com/gofiber/fiber/v2"
)

// SQLDebug attaches the SQL statements captured during a request to its
// context so the debug endpoints can expose them
func SQLDebug() fiber.Handler {
	return func(c *fiber.Ctx) error {
		beforeCount := len(database.SQLLogger.Queries())

		err := c.Next()

		afterQueries := database.SQLLogger.Queries()
		requestQueries := []database.QueryLog{}
		if diff := len(afterQueries) - beforeCount; diff > 0 && diff <= len(afterQueries) {
			// Queries() is most-recent-first
			requestQueries = afterQueries[:diff]
		}

		c.Locals("SQLQueries", requestQueries)
		c.Locals("TotalSQLQueries", len(requestQueries))

		return err
	}
}
