package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Error is the JSON error body of a failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an API error with the given status code.
func NewError(code int, message string) Error {
	return Error{Code: code, Message: message}
}

// ErrBadRequest is the response to an unparseable body.
func ErrBadRequest() Error {
	return Error{Code: fiber.StatusBadRequest, Message: "invalid JSON request"}
}

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError creates a 422 validation error.
func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// ErrorHandler maps errors to JSON responses. Domain sentinels get
// their canonical status codes; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		logger.Warn("Request failed: %v", err)
	}
	return c.Status(code).JSON(NewError(code, err.Error()))
}

// statusFor maps domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrDimensionMismatch):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
