package domain

import "time"

type GoalDescription struct {
	ID              int64     `db:"id" json:"id"`
	GoalIndicatorID int64     `db:"goal_indicator_id" json:"goalIndicatorId"`
	Explanation     string    `db:"explanation" json:"explanation"`
	CreatedBy       int64     `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type CreateGoalDescriptionRequest struct {
	GoalIndicatorID int64  `json:"goalIndicatorId" validate:"required,min=1"`
	Explanation     string `json:"explanation" validate:"required"`
}
