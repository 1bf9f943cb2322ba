package domain

import (
	"fmt"
	"strings"
	"time"
)

const clockLayout = "15:04"

// HoursWorked returns (out - in) - brk in hours. All values are HH:MM
// wall-clock strings; an empty break counts as zero. Shifts that end before
// they start yield a negative result rather than wrapping past midnight.
func HoursWorked(in, out, brk string) (float64, error) {
	start, err := parseClock(in)
	if err != nil {
		return 0, fmt.Errorf("in time: %w", err)
	}
	end, err := parseClock(out)
	if err != nil {
		return 0, fmt.Errorf("out time: %w", err)
	}
	var pause time.Duration
	if strings.TrimSpace(brk) != "" {
		pause, err = parseClock(brk)
		if err != nil {
			return 0, fmt.Errorf("break: %w", err)
		}
	}
	return (end - start - pause).Hours(), nil
}

// parseClock returns the offset of an HH:MM value from midnight.
func parseClock(raw string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
