package apperr

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(Validation("missing fields")))
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(InsufficientStock("Toor Dal (500g)")))
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(&AlreadyDeliveredError{}))
	assert.Equal(t, fiber.StatusNotFound, StatusCode(NotFound("order")))
	assert.Equal(t, fiber.StatusConflict, StatusCode(Duplicate("category")))
	assert.Equal(t, fiber.StatusConflict, StatusCode(Conflict("concurrent update")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(errors.New("connection refused")))
}

func TestMessagesNameTheCause(t *testing.T) {
	assert.Equal(t, "insufficient stock for Ghee (1l)", InsufficientStock("Ghee (1l)").Error())
	assert.Equal(t, "category already exists", Duplicate("category").Error())
	assert.Equal(t, "order not found", NotFound("order").Error())
	assert.Equal(t, "order already delivered", (&AlreadyDeliveredError{}).Error())
}
