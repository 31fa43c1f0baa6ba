package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// ClampPercentage guards a rate before it is rendered anywhere: NaN, infinite
// and negative values become 0, anything above 100 becomes 100. Division by
// zero upstream therefore never leaks Infinity into a payload.
func ClampPercentage(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Rate returns part/whole as a clamped percentage, 0 when whole is zero.
func Rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return ClampPercentage(float64(part) / float64(whole) * 100)
}

// ParseFloat coerces a string to a clamped percentage, 0 when unparseable.
func ParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return ClampPercentage(f)
}

// ParseInt safely parses a string to int with a fallback
func ParseInt(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}
