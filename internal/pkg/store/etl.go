package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
)

type ETLStore interface {
	// AggregateGoalProgress sums the progress values recorded in [from, to) per active goal.
	// Goals without values are returned with zero sum and count.
	AggregateGoalProgress(ctx context.Context, from, to time.Time) ([]*domain.GoalProgress, error)
	UpsertGoalProgressSnapshots(ctx context.Context, snapshots []*domain.GoalProgressSnapshot) error
	ListGoalProgressSnapshots(ctx context.Context, goalIDs []int64) ([]*domain.GoalProgressSnapshot, error)
}

const aggregateGoalProgressQuery = `
with progress as (
	select gi.goal_id, v.value
	from required_data_values v
	join goal_indicators gi on gi.id = v.scope_id
	where v.scope_type = 'goal_indicator'
		and v.kind = 'progress'
		and v.created_at >= $1 and v.created_at < $2
	union all
	select gi.goal_id, v.value
	from required_data_values v
	join goal_sub_indicators gsi on gsi.id = v.scope_id
	join goal_indicators gi on gi.id = gsi.goal_indicator_id
	where v.scope_type = 'goal_sub_indicator'
		and v.kind = 'progress'
		and v.created_at >= $1 and v.created_at < $2
)
select
	g.id as goal_id,
	g.name as title,
	coalesce(sum(p.value), 0)::numeric as sum_progress,
	count(p.value) as data_entries
from goals g
left join progress p on p.goal_id = g.id
where g.status = 'active'
group by g.id, g.name
order by g.id`

func (s *store) AggregateGoalProgress(ctx context.Context, from, to time.Time) ([]*domain.GoalProgress, error) {
	var selected []*domain.GoalProgress
	err := s.pool.Selectx(ctx, &selected, sq.Expr(aggregateGoalProgressQuery, from, to))
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpsertGoalProgressSnapshots(ctx context.Context, snapshots []*domain.GoalProgressSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := builder().Insert(tableGoalProgressSnapshots).
		Columns("goal_id", "year", "avg_progress", "data_entries", "computed_at")

	for _, snap := range snapshots {
		query = query.Values(snap.GoalID, snap.Year, snap.AvgProgress, snap.DataEntries, snap.ComputedAt)
	}

	query = query.Suffix(`
on conflict (goal_id, year)
do update
set
	avg_progress = excluded.avg_progress,
	data_entries = excluded.data_entries,
	computed_at = excluded.computed_at`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) ListGoalProgressSnapshots(ctx context.Context, goalIDs []int64) ([]*domain.GoalProgressSnapshot, error) {
	query := builder().Select(
		"s.goal_id", "g.name as title", "s.year", "s.avg_progress", "s.data_entries", "s.computed_at",
	).
		From(tableGoalProgressSnapshots+" s").
		Join(tableGoals+" g on g.id = s.goal_id").
		OrderBy("s.goal_id", "s.year")

	if goalIDs != nil {
		query = query.Where(sq.Eq{"s.goal_id": goalIDs})
	}

	var selected []*domain.GoalProgressSnapshot
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
