package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalProgress is the raw yearly aggregate of progress values of one goal.
type GoalProgress struct {
	GoalID      int64           `db:"goal_id"`
	Title       string          `db:"title"`
	SumProgress decimal.Decimal `db:"sum_progress"`
	DataEntries int64           `db:"data_entries"`
}

type GoalProgressSnapshot struct {
	GoalID      int64     `db:"goal_id" json:"goal_id"`
	Title       string    `db:"title" json:"title"`
	Year        Year      `db:"year" json:"year"`
	AvgProgress float64   `db:"avg_progress" json:"avg_progress"`
	DataEntries int64     `db:"data_entries" json:"data_entries"`
	ComputedAt  time.Time `db:"computed_at" json:"computed_at"`
}

type RunETLResponse struct {
	Year    Year                    `json:"year"`
	Results []*GoalProgressSnapshot `json:"results"`
}
