package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/xpgx"
)

type ListIndicatorsOpts struct {
	Status *domain.Status
	IDs    []int64
}

type CatalogStore interface {
	CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	UpsertGoals(ctx context.Context, goals []*domain.Goal) (int64, error)
	GetGoal(ctx context.Context, id int64) (*domain.Goal, error)
	ListGoals(ctx context.Context) ([]*domain.Goal, error)

	CreateIndicator(ctx context.Context, indicator *domain.Indicator) (*domain.Indicator, error)
	GetIndicator(ctx context.Context, id int64) (*domain.Indicator, error)
	ListIndicators(ctx context.Context, opts ListIndicatorsOpts) ([]*domain.Indicator, error)
	SetIndicatorStatus(ctx context.Context, id int64, status domain.Status) error

	CreateSubIndicator(ctx context.Context, sub *domain.SubIndicator) (*domain.SubIndicator, error)
	GetSubIndicator(ctx context.Context, id int64) (*domain.SubIndicator, error)
	ListSubIndicators(ctx context.Context, indicatorID int64) ([]*domain.SubIndicator, error)

	CreateRequiredData(ctx context.Context, rd *domain.RequiredData) (*domain.RequiredData, error)
	ListRequiredData(ctx context.Context) ([]*domain.RequiredData, error)
}

var (
	goalColumns         = []string{"id", "name", "description", "status", "created_at", "updated_at"}
	indicatorColumns    = []string{"id", "name", "description", "status", "created_at", "updated_at"}
	subIndicatorColumns = []string{"id", "indicator_id", "name", "description", "status", "created_at", "updated_at"}
	requiredDataColumns = []string{"id", "name", "description", "unit", "status", "created_at"}
)

// syncGoalIDSequence moves goals_id_seq past the largest id, so explicit SDG numbers never
// collide with generated ids.
const syncGoalIDSequence = `
select setval(
	pg_get_serial_sequence('goals', 'id'),
	coalesce((select max(id) from goals), 1),
	(select max(id) from goals) is not null
)`

func createGoalQuery(goal *domain.Goal) sq.InsertBuilder {
	query := builder().Insert(tableGoals)
	if goal.ID != 0 {
		query = query.Columns("id", "name", "description").
			Values(goal.ID, goal.Name, goal.Description)
	} else {
		query = query.Columns("name", "description").
			Values(goal.Name, goal.Description)
	}
	return query.Suffix("RETURNING " + joinColumns(goalColumns))
}

func (s *store) CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	created := new(domain.Goal)

	err := s.pool.InTx(ctx, func(tx xpgx.Queryx) error {
		if err := tx.Getx(ctx, created, createGoalQuery(goal)); err != nil {
			return wrapErr(err)
		}
		if goal.ID == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, syncGoalIDSequence); err != nil {
			return fmt.Errorf("sync goal id sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpsertGoals writes goals keyed by their SDG number and returns the number of affected rows.
func (s *store) UpsertGoals(ctx context.Context, goals []*domain.Goal) (int64, error) {
	if len(goals) == 0 {
		return 0, nil
	}

	query := builder().Insert(tableGoals).
		Columns("id", "name", "description")

	for _, g := range goals {
		query = query.Values(g.ID, g.Name, g.Description)
	}

	query = query.Suffix(`
on conflict (id)
do update
set
	name = excluded.name,
	description = excluded.description,
	updated_at = now()`)

	var affected int64
	err := s.pool.InTx(ctx, func(tx xpgx.Queryx) error {
		tag, err := tx.Execx(ctx, query)
		if err != nil {
			return wrapErr(err)
		}
		affected = tag.RowsAffected()

		if _, err = tx.Exec(ctx, syncGoalIDSequence); err != nil {
			return fmt.Errorf("sync goal id sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

func (s *store) GetGoal(ctx context.Context, id int64) (*domain.Goal, error) {
	query := builder().Select(goalColumns...).
		From(tableGoals).
		Where(sq.Eq{"id": id})

	selected := new(domain.Goal)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListGoals(ctx context.Context) ([]*domain.Goal, error) {
	query := builder().Select(goalColumns...).
		From(tableGoals).
		Where(sq.Eq{"status": domain.StatusActive}).
		OrderBy("id")

	var selected []*domain.Goal
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CreateIndicator(ctx context.Context, indicator *domain.Indicator) (*domain.Indicator, error) {
	query := builder().Insert(tableIndicators).
		Columns("name", "description").
		Values(indicator.Name, indicator.Description).
		Suffix("RETURNING " + joinColumns(indicatorColumns))

	created := new(domain.Indicator)
	err := s.pool.Getx(ctx, created, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) GetIndicator(ctx context.Context, id int64) (*domain.Indicator, error) {
	query := builder().Select(indicatorColumns...).
		From(tableIndicators).
		Where(sq.Eq{"id": id})

	selected := new(domain.Indicator)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListIndicators(ctx context.Context, opts ListIndicatorsOpts) ([]*domain.Indicator, error) {
	query := builder().Select(indicatorColumns...).
		From(tableIndicators).
		OrderBy("id")

	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
	}

	if opts.IDs != nil {
		query = query.Where(sq.Eq{"id": opts.IDs})
	}

	var selected []*domain.Indicator
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) SetIndicatorStatus(ctx context.Context, id int64, status domain.Status) error {
	query := builder().Update(tableIndicators).
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("indicator %d: %w", id, constants.ErrDBNotFound)
	}

	return nil
}

func (s *store) CreateSubIndicator(ctx context.Context, sub *domain.SubIndicator) (*domain.SubIndicator, error) {
	query := builder().Insert(tableSubIndicators).
		Columns("indicator_id", "name", "description").
		Values(sub.IndicatorID, sub.Name, sub.Description).
		Suffix("RETURNING " + joinColumns(subIndicatorColumns))

	created := new(domain.SubIndicator)
	err := s.pool.Getx(ctx, created, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) GetSubIndicator(ctx context.Context, id int64) (*domain.SubIndicator, error) {
	query := builder().Select(subIndicatorColumns...).
		From(tableSubIndicators).
		Where(sq.Eq{"id": id})

	selected := new(domain.SubIndicator)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListSubIndicators(ctx context.Context, indicatorID int64) ([]*domain.SubIndicator, error) {
	query := builder().Select(subIndicatorColumns...).
		From(tableSubIndicators).
		Where(sq.Eq{"indicator_id": indicatorID, "status": domain.StatusActive}).
		OrderBy("id")

	var selected []*domain.SubIndicator
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CreateRequiredData(ctx context.Context, rd *domain.RequiredData) (*domain.RequiredData, error) {
	query := builder().Insert(tableRequiredData).
		Columns("name", "description", "unit").
		Values(rd.Name, rd.Description, rd.Unit).
		Suffix("RETURNING " + joinColumns(requiredDataColumns))

	created := new(domain.RequiredData)
	err := s.pool.Getx(ctx, created, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) ListRequiredData(ctx context.Context) ([]*domain.RequiredData, error) {
	query := builder().Select(requiredDataColumns...).
		From(tableRequiredData).
		Where(sq.Eq{"status": domain.StatusActive}).
		OrderBy("id")

	var selected []*domain.RequiredData
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
