package util

import (
	"strconv"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParsePositiveInt parses a string to a positive integer, returning
// defaultValue if parsing fails or the value is not positive
func ParsePositiveInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil && val > 0 {
		return val
	}
	return defaultValue
}

// Offset converts a 1-based page number and limit into a query offset
func Offset(limit, page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
