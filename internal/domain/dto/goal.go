package dto

import (
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
)

type RequiredData struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

type ComputationRule struct {
	ID        int64     `json:"id"`
	Formula   string    `json:"formula"`
	Inherited bool      `json:"inherited"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubIndicator struct {
	ID              int64            `json:"id"`
	SubIndicatorID  int64            `json:"sub_indicator_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Baseline        float64          `json:"baseline"`
	Target          float64          `json:"target"`
	RequiredData    []*RequiredData  `json:"required_data"`
	ComputationRule *ComputationRule `json:"computation_rule"`
}

// Indicator is a goal or project indicator binding with everything hanging off it.
type Indicator struct {
	ID              int64            `json:"id"`
	IndicatorID     int64            `json:"indicator_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Baseline        float64          `json:"baseline"`
	Target          float64          `json:"target"`
	SubIndicators   []*SubIndicator  `json:"sub_indicators"`
	RequiredData    []*RequiredData  `json:"required_data"`
	ComputationRule *ComputationRule `json:"computation_rule"`
}

type Goal struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Indicators  []*Indicator `json:"indicators"`
}

type Project struct {
	domain.Project
	Locations  []*domain.Location `json:"locations"`
	Indicators []*Indicator       `json:"indicators"`
}

type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type YearValue struct {
	Year  domain.Year `json:"year"`
	Value float64     `json:"value"`
}

type SDGIndicator struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	BaselineValue float64       `json:"baseline_value"`
	TargetValue   float64       `json:"target_value"`
	CurrentValue  []*ValuePoint `json:"current_value"`
}

// SDGGoal is one element of the flattened dashboard feed.
type SDGGoal struct {
	GoalID             int64           `json:"goal_id"`
	Title              string          `json:"title"`
	GlobalTargetValue  float64         `json:"global_target_value"`
	GlobalCurrentValue []*YearValue    `json:"global_current_value"`
	Indicators         []*SDGIndicator `json:"indicators"`
}
