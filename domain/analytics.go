package domain

import "time"

// Metric is a count for the current month together with its change against
// the previous month.
type Metric struct {
	Count      int `json:"count"`
	Difference int `json:"difference"`
}

// NewMetric builds a Metric from this month's and last month's counts.
func NewMetric(current, previous int) Metric {
	return Metric{Count: current, Difference: current - previous}
}

// Analytics summarizes records of a workspace or project month over month.
type Analytics struct {
	Total      Metric `json:"total"`
	Assigned   Metric `json:"assigned"`
	Incomplete Metric `json:"incomplete"`
	Complete   Metric `json:"complete"`
	Overdue    Metric `json:"overdue"`
}

// Window is a closed time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindows returns the calendar month containing now and the month
// before it, in now's location.
func MonthWindows(now time.Time) (current, previous Window) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	current = Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
	prevStart := start.AddDate(0, -1, 0)
	previous = Window{Start: prevStart, End: start.Add(-time.Nanosecond)}
	return current, previous
}

// AnalyticsScope selects the records an analytics query counts.
type AnalyticsScope struct {
	WorkspaceID string
	ProjectID   string
}

// CountQuery describes one analytics count.
type CountQuery struct {
	Scope      AnalyticsScope
	Window     Window
	AssigneeID string
	// Done selects complete (true) or incomplete (false) records; nil counts both.
	Done *bool
	// OverdueAt counts only records due before this instant when non-zero.
	OverdueAt time.Time
}
