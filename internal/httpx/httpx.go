package httpx

import (
	"errors"
	"fmt"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func requestID(c *fiber.Ctx) string {
	if v := c.Locals("requestid"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func Error(c *fiber.Ctx, status int, code string, message string) error {
	if message == "" {
		message = "Request failed"
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID(c),
	})
}

func BadRequest(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusBadRequest, code, message)
}

func Unauthorized(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusUnauthorized, code, message)
}

func Forbidden(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusForbidden, code, message)
}

func NotFound(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusNotFound, code, message)
}

func Conflict(c *fiber.Ctx, code string, message string) error {
	return Error(c, fiber.StatusConflict, code, message)
}

func Internal(c *fiber.Ctx, code string) error {
	return Error(c, fiber.StatusInternalServerError, code, "Internal server error")
}

// FromError maps an apperr kind onto the HTTP boundary. Untyped errors are
// reported as transient so the client UI shows a retryable failure state.
func FromError(c *fiber.Ctx, err error, fallbackCode string) error {
	code := apperr.CodeOf(err)
	if code == "" {
		code = fallbackCode
	}
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return NotFound(c, code, "Not found")
	case apperr.Forbidden:
		return Forbidden(c, code, "Forbidden")
	case apperr.Conflict:
		return Conflict(c, code, "Conflict")
	case apperr.Validation:
		return BadRequest(c, code, errMessage(err))
	case apperr.Transient:
		return Error(c, fiber.StatusServiceUnavailable, code, "Temporarily unavailable")
	default:
		return Internal(c, code)
	}
}

func errMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Invalid request"
}

func LocalUint(c *fiber.Ctx, key string) (uint, error) {
	v := c.Locals(key)
	if v == nil {
		return 0, fmt.Errorf("missing local %s", key)
	}
	u, ok := v.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid local %s", key)
	}
	return u, nil
}
