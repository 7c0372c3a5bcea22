// Package apperr defines the domain error taxonomy and maps it onto HTTP
// responses at the Fiber boundary. Handlers and services return these types;
// nothing below the boundary formats status codes itself.
package apperr

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports missing or malformed input, including unknown
// order status values and illegal lifecycle transitions.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent product, variant or order.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// InsufficientStockError reports a failed stock reservation, naming the item
// the customer asked for.
type InsufficientStockError struct {
	Item string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for " + e.Item
}

// InsufficientStock builds an InsufficientStockError for the named item.
func InsufficientStock(item string) error {
	return &InsufficientStockError{Item: item}
}

// DuplicateError reports a unique-constraint violation, e.g. a category name
// that already exists.
type DuplicateError struct {
	Resource string
}

func (e *DuplicateError) Error() string { return e.Resource + " already exists" }

// Duplicate builds a DuplicateError for the named resource.
func Duplicate(resource string) error {
	return &DuplicateError{Resource: resource}
}

// AlreadyDeliveredError rejects a duplicate Delivered transition.
type AlreadyDeliveredError struct{}

func (e *AlreadyDeliveredError) Error() string { return "order already delivered" }

// ConflictError reports a lost race between concurrent status updates on the
// same order. The caller may retry against the new current status.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a ConflictError.
func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// StatusCode maps a domain error to its HTTP status. Unknown errors map to
// 500.
func StatusCode(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		stock      *InsufficientStockError
		duplicate  *DuplicateError
		delivered  *AlreadyDeliveredError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &stock), errors.As(err, &delivered):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &conflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is installed as the Fiber error handler. Domain errors keep
// their message; everything unexpected is logged and answered generically so
// internals never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	code := StatusCode(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("[%s %s] unexpected error: %v", c.Method(), c.Path(), err)
		return c.Status(code).JSON(fiber.Map{"message": "internal server error"})
	}

	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}
