package domain

import (
	"fmt"
	"time"
)

// OwnerType tells whether an indicator binding hangs off a goal or a project.
type OwnerType string

const (
	OwnerGoal    OwnerType = "goal"
	OwnerProject OwnerType = "project"
)

func ParseOwnerType(s string) (OwnerType, error) {
	switch OwnerType(s) {
	case OwnerGoal, OwnerProject:
		return OwnerType(s), nil
	case "":
		return OwnerGoal, nil
	}
	return "", fmt.Errorf("unknown owner type %q", s)
}

// IndicatorScope is the scope type of indicator-level bindings of the owner.
func (o OwnerType) IndicatorScope() ScopeType {
	if o == OwnerProject {
		return ScopeProjectIndicator
	}
	return ScopeGoalIndicator
}

// SubIndicatorScope is the scope type of sub-indicator-level bindings of the owner.
func (o OwnerType) SubIndicatorScope() ScopeType {
	if o == OwnerProject {
		return ScopeProjectSubIndicator
	}
	return ScopeGoalSubIndicator
}

// ScopeType names the binding table a (scope_type, scope_id) pair points into.
type ScopeType string

const (
	ScopeGoalIndicator       ScopeType = "goal_indicator"
	ScopeGoalSubIndicator    ScopeType = "goal_sub_indicator"
	ScopeProjectIndicator    ScopeType = "project_indicator"
	ScopeProjectSubIndicator ScopeType = "project_sub_indicator"
)

var scopeTypes = []ScopeType{
	ScopeGoalIndicator,
	ScopeGoalSubIndicator,
	ScopeProjectIndicator,
	ScopeProjectSubIndicator,
}

func ParseScopeType(s string) (ScopeType, error) {
	for _, st := range scopeTypes {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown scope type %q", s)
}

func (s ScopeType) Owner() OwnerType {
	if s == ScopeProjectIndicator || s == ScopeProjectSubIndicator {
		return OwnerProject
	}
	return OwnerGoal
}

func (s ScopeType) IsSubIndicator() bool {
	return s == ScopeGoalSubIndicator || s == ScopeProjectSubIndicator
}

// Scope identifies one indicator or sub-indicator binding.
type Scope struct {
	Type ScopeType `json:"scopeType"`
	ID   int64     `json:"scopeId"`
}

func (s Scope) String() string {
	return fmt.Sprintf("%s:%d", s.Type, s.ID)
}

// IndicatorBinding is a GoalIndicator or a ProjectIndicator, depending on OwnerType.
type IndicatorBinding struct {
	ID                   int64     `db:"id" json:"id"`
	OwnerType            OwnerType `db:"owner_type" json:"owner_type"`
	OwnerID              int64     `db:"owner_id" json:"owner_id"`
	IndicatorID          int64     `db:"indicator_id" json:"indicator_id"`
	IndicatorName        string    `db:"indicator_name" json:"indicator_name"`
	IndicatorDescription string    `db:"indicator_description" json:"indicator_description"`
	Baseline             *float64  `db:"baseline" json:"baseline"`
	Target               *float64  `db:"target" json:"target"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// SubIndicatorBinding is a GoalSubIndicator or a ProjectSubIndicator.
// CatalogIndicatorID is the indicator the sub-indicator is cataloged under.
type SubIndicatorBinding struct {
	ID                      int64     `db:"id" json:"id"`
	OwnerType               OwnerType `db:"owner_type" json:"owner_type"`
	ParentBindingID         int64     `db:"parent_binding_id" json:"parent_binding_id"`
	SubIndicatorID          int64     `db:"sub_indicator_id" json:"sub_indicator_id"`
	SubIndicatorName        string    `db:"sub_indicator_name" json:"sub_indicator_name"`
	SubIndicatorDescription string    `db:"sub_indicator_description" json:"sub_indicator_description"`
	CatalogIndicatorID      int64     `db:"catalog_indicator_id" json:"catalog_indicator_id"`
	Baseline                *float64  `db:"baseline" json:"baseline"`
	Target                  *float64  `db:"target" json:"target"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

// RequiredDataBinding attaches a required-data slot to a scope.
type RequiredDataBinding struct {
	ID             int64     `db:"id" json:"id"`
	ScopeType      ScopeType `db:"scope_type" json:"scope_type"`
	ScopeID        int64     `db:"scope_id" json:"scope_id"`
	RequiredDataID int64     `db:"required_data_id" json:"required_data_id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	Unit           string    `db:"unit" json:"unit"`
}

// ComputationRule is the single active formula of a scope. Inherited marks a rule written by a cascade.
type ComputationRule struct {
	ID        int64     `db:"id" json:"id"`
	ScopeType ScopeType `db:"scope_type" json:"scope_type"`
	ScopeID   int64     `db:"scope_id" json:"scope_id"`
	Formula   string    `db:"formula" json:"formula"`
	Inherited bool      `db:"inherited" json:"inherited"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type AddIndicatorRequest struct {
	IndicatorID int64    `json:"indicatorId" validate:"required,min=1"`
	Baseline    *float64 `json:"baseline"`
	Target      *float64 `json:"target"`
}

type AddSubIndicatorRequest struct {
	SubIndicatorID int64    `json:"subIndicatorId" validate:"required,min=1"`
	Baseline       *float64 `json:"baseline"`
	Target         *float64 `json:"target"`
}

type BindRequiredDataRequest struct {
	ScopeType      ScopeType `json:"scopeType" validate:"required,oneof=goal_indicator goal_sub_indicator project_indicator project_sub_indicator"`
	ScopeID        int64     `json:"scopeId" validate:"required,min=1"`
	RequiredDataID int64     `json:"requiredDataId" validate:"required,min=1"`
}

type UpdateComputationRuleRequest struct {
	Formula                string `json:"formula" validate:"required"`
	CascadeToSubIndicators bool   `json:"cascadeToSubIndicators"`
}
