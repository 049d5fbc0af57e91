package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
)

type GoalDescriptionStore interface {
	CreateGoalDescription(ctx context.Context, description *domain.GoalDescription) (*domain.GoalDescription, error)
	// ListGoalDescriptions returns the explanations of a goal indicator, newest first.
	ListGoalDescriptions(ctx context.Context, goalIndicatorID int64) ([]*domain.GoalDescription, error)
}

var goalDescriptionColumns = []string{"id", "goal_indicator_id", "explanation", "created_by", "created_at"}

func (s *store) CreateGoalDescription(
	ctx context.Context,
	description *domain.GoalDescription,
) (*domain.GoalDescription, error) {
	query := builder().Insert(tableGoalDescriptions).
		Columns("goal_indicator_id", "explanation", "created_by").
		Values(description.GoalIndicatorID, description.Explanation, description.CreatedBy).
		Suffix("RETURNING " + joinColumns(goalDescriptionColumns))

	created := new(domain.GoalDescription)
	err := s.pool.Getx(ctx, created, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) ListGoalDescriptions(ctx context.Context, goalIndicatorID int64) ([]*domain.GoalDescription, error) {
	query := builder().Select(goalDescriptionColumns...).
		From(tableGoalDescriptions).
		Where(sq.Eq{"goal_indicator_id": goalIndicatorID}).
		OrderBy("created_at desc", "id desc")

	var selected []*domain.GoalDescription
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
