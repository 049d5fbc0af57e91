package domain

import "time"

type ValueKind string

const (
	ValueBaseline ValueKind = "baseline"
	ValueProgress ValueKind = "progress"
)

// RequiredDataValue is one immutable observation of a required-data slot.
type RequiredDataValue struct {
	ID             int64     `db:"id" json:"id"`
	ScopeType      ScopeType `db:"scope_type" json:"scope_type"`
	ScopeID        int64     `db:"scope_id" json:"scope_id"`
	RequiredDataID int64     `db:"required_data_id" json:"required_data_id"`
	Kind           ValueKind `db:"kind" json:"kind"`
	Value          float64   `db:"value" json:"value"`
	CreatedBy      int64     `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ComputedValue is a scalar returned by the calculator for a rule.
type ComputedValue struct {
	ID        int64     `db:"id" json:"id"`
	ScopeType ScopeType `db:"scope_type" json:"scope_type"`
	ScopeID   int64     `db:"scope_id" json:"scope_id"`
	RuleID    int64     `db:"rule_id" json:"rule_id"`
	Value     float64   `db:"value" json:"value"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ValueInput is one tuple of a submitted batch. Exactly one of the four binding ids is set.
type ValueInput struct {
	GoalIndicatorID       *int64   `json:"goalIndicatorId"`
	GoalSubIndicatorID    *int64   `json:"goalSubIndicatorId"`
	ProjectIndicatorID    *int64   `json:"projectIndicatorId"`
	ProjectSubIndicatorID *int64   `json:"projectSubIndicatorId"`
	RequiredDataID        int64    `json:"requiredDataId" validate:"required,min=1"`
	Value                 *float64 `json:"value" validate:"required"`
}

type SubmitValuesRequest struct {
	Kind   ValueKind     `json:"kind" validate:"required,oneof=baseline progress"`
	Values []*ValueInput `json:"values" validate:"required,min=1,dive,required"`
}

type NamedValue struct {
	Name  string  `json:"name" validate:"required"`
	Value float64 `json:"value"`
}

type CalculateRequest struct {
	RuleID           int64         `json:"ruleId" validate:"required,min=1"`
	ScopeType        ScopeType     `json:"scopeType" validate:"required,oneof=goal_indicator goal_sub_indicator project_indicator project_sub_indicator"`
	ScopeID          int64         `json:"scopeId" validate:"required,min=1"`
	Values           []*NamedValue `json:"values" validate:"dive,required"`
	WithDependencies bool          `json:"withDependencies"`
}

type CalculateResponse struct {
	Value    float64 `json:"value"`
	Retries  int     `json:"retries"`
	RecordID int64   `json:"recordId"`
}
