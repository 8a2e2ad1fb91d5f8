package handlers

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// parseUserIDParam parses a user id from the named query parameter
func parseUserIDParam(c echo.Context, name string) (uuid.UUID, error) {
	param := c.QueryParam(name)
	if param == "" {
		return uuid.UUID{}, fmt.Errorf("missing %s parameter", name)
	}

	userID, err := uuid.Parse(param)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid %s format", name)
	}
	return userID, nil
}

// parseMonthList parses a repeated integer query parameter into a month slice
func parseMonthList(c echo.Context, name string) ([]int, error) {
	params := c.QueryParams()[name]
	months := make([]int, 0, len(params))
	for _, param := range params {
		var value int
		if _, err := fmt.Sscanf(param, "%d", &value); err != nil {
			return nil, fmt.Errorf("invalid %s value %q", name, param)
		}
		months = append(months, value)
	}
	return months, nil
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(param, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}
