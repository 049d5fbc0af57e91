package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
)

const (
	tableUsers                 = "users"
	tableGoals                 = "goals"
	tableIndicators            = "indicators"
	tableSubIndicators         = "sub_indicators"
	tableRequiredData          = "required_data"
	tableGoalIndicators        = "goal_indicators"
	tableGoalSubIndicators     = "goal_sub_indicators"
	tableProjectIndicators     = "project_indicators"
	tableProjectSubIndicators  = "project_sub_indicators"
	tableRequiredDataBindings  = "required_data_bindings"
	tableComputationRules      = "computation_rules"
	tableRequiredDataValues    = "required_data_values"
	tableComputedValues        = "computed_values"
	tableProjects              = "projects"
	tableLocations             = "locations"
	tableProjectLocations      = "project_locations"
	tableGoalDescriptions      = "goal_descriptions"
	tableGoalProgressSnapshots = "goal_progress_snapshots"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

var pgCodeMapping = map[string]error{
	pgUniqueViolation:     constants.ErrAlreadyExists,
	pgForeignKeyViolation: constants.ErrInvalidReference,
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if v, ok := pgCodeMapping[pgErr.Code]; ok {
			return fmt.Errorf("%w: %s", v, pgErr.ConstraintName)
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func indicatorTable(owner domain.OwnerType) (table, ownerColumn string) {
	if owner == domain.OwnerProject {
		return tableProjectIndicators, "project_id"
	}
	return tableGoalIndicators, "goal_id"
}

func subIndicatorTable(owner domain.OwnerType) (table, parentColumn string) {
	if owner == domain.OwnerProject {
		return tableProjectSubIndicators, "project_indicator_id"
	}
	return tableGoalSubIndicators, "goal_indicator_id"
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func prefixColumns(prefix string, columns []string) []string {
	res := make([]string, 0, len(columns))
	for _, c := range columns {
		res = append(res, prefix+"."+c)
	}
	return res
}
