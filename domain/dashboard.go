package domain

import "math"

// DashboardCounts are the mutually exclusive status buckets computed
// over one visible task set at a single point in time. Every visible
// task falls into exactly one bucket.
type DashboardCounts struct {
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
}

// Total is the sum of all four buckets.
func (c DashboardCounts) Total() int {
	return c.Completed + c.Overdue + c.InProgress + c.Pending
}

// ExecutionProgress is round(100 * completed / (completed + inProgress
// + overdue)), or 0 when nothing has been started or come due.
func (c DashboardCounts) ExecutionProgress() int {
	active := c.Completed + c.InProgress + c.Overdue
	if active == 0 {
		return 0
	}
	return int(math.Round(100 * float64(c.Completed) / float64(active)))
}

// CategoryCount is one row of the dashboard's per-category rollup.
type CategoryCount struct {
	CategoryID *string `json:"categoryId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
}

// DashboardSummary is the canonical dashboard response shape.
type DashboardSummary struct {
	Total             int             `json:"total"`
	Pending           int             `json:"pending"`
	InProgress        int             `json:"inProgress"`
	Completed         int             `json:"completed"`
	Overdue           int             `json:"overdue"`
	ExecutionProgress int             `json:"executionProgress"`
	ByCategory        []CategoryCount `json:"byCategory"`
	Upcoming          []Task          `json:"upcoming"`
}
