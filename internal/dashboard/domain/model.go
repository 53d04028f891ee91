package domain

import "time"

// Contribution is one recorded activity item: a commit, a pull request or a
// closed issue.
type Contribution struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ProjectID    string    `json:"project_id"`
	Type         string    `json:"type"` // commit | pull_request | issue
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	LinesAdded   int       `json:"lines_added"`
	LinesRemoved int       `json:"lines_removed"`
	XPAwarded    int       `json:"xp_awarded"`
	CreatedAt    time.Time `json:"created_at"`
}

// Totals aggregates a user's contribution history for the dashboard.
type Totals struct {
	Commits      int
	PullRequests int
	Issues       int
	LinesAdded   int
	LinesRemoved int
	XPAwarded    int
	Count        int
}

// NetLines is lines added minus removed, floored at zero.
func (t Totals) NetLines() int {
	net := t.LinesAdded - t.LinesRemoved
	if net < 0 {
		return 0
	}
	return net
}
