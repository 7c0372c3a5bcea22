package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pagination is the page/limit/offset triple parsed from a listing request.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination extracts page and limit from the query string. Absent,
// malformed or non-positive values fall back to page 1 and 20 items.
func ParsePagination(c *fiber.Ctx) Pagination {
	page := atoiOr(c.Query("page", "1"), 1)
	limit := atoiOr(c.Query("limit", "20"), 20)
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func atoiOr(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
