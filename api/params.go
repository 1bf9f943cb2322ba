package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"workroll/domain"
)

const dayLayout = "2006-01-02"

// parseDay accepts a calendar date or an RFC 3339 timestamp and returns the
// date at UTC midnight.
func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(dayLayout, raw)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, raw)
		if tsErr != nil {
			return time.Time{}, fmt.Errorf("%w: bad date %q", errInvalidRequest, raw)
		}
		t = ts.UTC()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// recordFilterFrom reads record filters from the query string.
func recordFilterFrom(c echo.Context) (domain.RecordFilter, error) {
	f := domain.RecordFilter{
		ProjectID:  c.QueryParam("projectId"),
		AssigneeID: c.QueryParam("assigneeId"),
		Search:     strings.TrimSpace(c.QueryParam("search")),
	}
	if raw := c.QueryParam("status"); raw != "" {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			return f, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		f.Status = s
	}
	if raw := c.QueryParam("dueDate"); raw != "" {
		day, err := parseDay(raw)
		if err != nil {
			return f, err
		}
		f.DueDate = day.Format(dayLayout)
	}
	if raw := c.QueryParam("week"); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil || week < 1 {
			return f, fmt.Errorf("%w: bad week %q", errInvalidRequest, raw)
		}
		f.Week = week
	}
	return f, nil
}
