package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
)

type ListIndicatorBindingsOpts struct {
	Owner domain.OwnerType
	// OwnerIDs limits the result to the given goals or projects. Nil means all of them.
	OwnerIDs []int64
	// ActiveOnly drops bindings whose catalog indicator is inactive.
	ActiveOnly bool
}

type ListSubIndicatorBindingsOpts struct {
	Owner     domain.OwnerType
	ParentIDs []int64
}

type HierarchyStore interface {
	CreateIndicatorBinding(ctx context.Context, binding *domain.IndicatorBinding) (*domain.IndicatorBinding, error)
	GetIndicatorBinding(ctx context.Context, owner domain.OwnerType, id int64) (*domain.IndicatorBinding, error)
	ListIndicatorBindings(ctx context.Context, opts ListIndicatorBindingsOpts) ([]*domain.IndicatorBinding, error)

	CreateSubIndicatorBinding(ctx context.Context, binding *domain.SubIndicatorBinding) (*domain.SubIndicatorBinding, error)
	GetSubIndicatorBinding(ctx context.Context, owner domain.OwnerType, id int64) (*domain.SubIndicatorBinding, error)
	ListSubIndicatorBindings(ctx context.Context, opts ListSubIndicatorBindingsOpts) ([]*domain.SubIndicatorBinding, error)

	BindRequiredData(ctx context.Context, scope domain.Scope, requiredDataID int64) (*domain.RequiredDataBinding, error)
	// ListRequiredDataBindings returns the slots bound to scopes of scopeType. Nil scopeIDs means every scope.
	ListRequiredDataBindings(ctx context.Context, scopeType domain.ScopeType, scopeIDs []int64) ([]*domain.RequiredDataBinding, error)
}

func indicatorBindingQuery(owner domain.OwnerType) sq.SelectBuilder {
	table, ownerColumn := indicatorTable(owner)

	return builder().Select(
		"b.id",
		fmt.Sprintf("'%s'::text as owner_type", owner),
		fmt.Sprintf("b.%s as owner_id", ownerColumn),
		"b.indicator_id",
		"i.name as indicator_name",
		"i.description as indicator_description",
		"b.baseline",
		"b.target",
		"b.created_at",
	).
		From(table + " b").
		Join(tableIndicators + " i on i.id = b.indicator_id")
}

func subIndicatorBindingQuery(owner domain.OwnerType) sq.SelectBuilder {
	table, parentColumn := subIndicatorTable(owner)

	return builder().Select(
		"b.id",
		fmt.Sprintf("'%s'::text as owner_type", owner),
		fmt.Sprintf("b.%s as parent_binding_id", parentColumn),
		"b.sub_indicator_id",
		"si.name as sub_indicator_name",
		"si.description as sub_indicator_description",
		"si.indicator_id as catalog_indicator_id",
		"b.baseline",
		"b.target",
		"b.created_at",
	).
		From(table + " b").
		Join(tableSubIndicators + " si on si.id = b.sub_indicator_id")
}

func (s *store) CreateIndicatorBinding(ctx context.Context, binding *domain.IndicatorBinding) (*domain.IndicatorBinding, error) {
	table, ownerColumn := indicatorTable(binding.OwnerType)

	query := builder().Insert(table).
		Columns(ownerColumn, "indicator_id", "baseline", "target").
		Values(binding.OwnerID, binding.IndicatorID, binding.Baseline, binding.Target).
		Suffix("RETURNING id")

	var id int64
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	if err = s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return nil, wrapErr(err)
	}

	return s.GetIndicatorBinding(ctx, binding.OwnerType, id)
}

func (s *store) GetIndicatorBinding(ctx context.Context, owner domain.OwnerType, id int64) (*domain.IndicatorBinding, error) {
	query := indicatorBindingQuery(owner).
		Where(sq.Eq{"b.id": id})

	selected := new(domain.IndicatorBinding)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListIndicatorBindings(ctx context.Context, opts ListIndicatorBindingsOpts) ([]*domain.IndicatorBinding, error) {
	_, ownerColumn := indicatorTable(opts.Owner)

	query := indicatorBindingQuery(opts.Owner).
		OrderBy("b.id")

	if opts.OwnerIDs != nil {
		query = query.Where(sq.Eq{"b." + ownerColumn: opts.OwnerIDs})
	}
	if opts.ActiveOnly {
		query = query.Where(sq.Eq{"i.status": domain.StatusActive})
	}

	var selected []*domain.IndicatorBinding
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CreateSubIndicatorBinding(ctx context.Context, binding *domain.SubIndicatorBinding) (*domain.SubIndicatorBinding, error) {
	table, parentColumn := subIndicatorTable(binding.OwnerType)

	query := builder().Insert(table).
		Columns(parentColumn, "sub_indicator_id", "baseline", "target").
		Values(binding.ParentBindingID, binding.SubIndicatorID, binding.Baseline, binding.Target).
		Suffix("RETURNING id")

	var id int64
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	if err = s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return nil, wrapErr(err)
	}

	return s.GetSubIndicatorBinding(ctx, binding.OwnerType, id)
}

func (s *store) GetSubIndicatorBinding(ctx context.Context, owner domain.OwnerType, id int64) (*domain.SubIndicatorBinding, error) {
	query := subIndicatorBindingQuery(owner).
		Where(sq.Eq{"b.id": id})

	selected := new(domain.SubIndicatorBinding)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListSubIndicatorBindings(ctx context.Context, opts ListSubIndicatorBindingsOpts) ([]*domain.SubIndicatorBinding, error) {
	_, parentColumn := subIndicatorTable(opts.Owner)

	query := subIndicatorBindingQuery(opts.Owner).
		OrderBy("b.id")

	if opts.ParentIDs != nil {
		query = query.Where(sq.Eq{"b." + parentColumn: opts.ParentIDs})
	}

	var selected []*domain.SubIndicatorBinding
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

var requiredDataBindingColumns = []string{
	"b.id", "b.scope_type", "b.scope_id", "b.required_data_id", "rd.name", "rd.description", "rd.unit",
}

func (s *store) BindRequiredData(ctx context.Context, scope domain.Scope, requiredDataID int64) (*domain.RequiredDataBinding, error) {
	query := builder().Insert(tableRequiredDataBindings).
		Columns("scope_type", "scope_id", "required_data_id").
		Values(scope.Type, scope.ID, requiredDataID).
		Suffix("on conflict (scope_type, scope_id, required_data_id) do nothing")

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return nil, wrapErr(err)
	}

	selectQuery := builder().Select(requiredDataBindingColumns...).
		From(tableRequiredDataBindings + " b").
		Join(tableRequiredData + " rd on rd.id = b.required_data_id").
		Where(sq.Eq{
			"b.scope_type":       scope.Type,
			"b.scope_id":         scope.ID,
			"b.required_data_id": requiredDataID,
		})

	selected := new(domain.RequiredDataBinding)
	err := s.pool.Getx(ctx, selected, selectQuery)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListRequiredDataBindings(
	ctx context.Context,
	scopeType domain.ScopeType,
	scopeIDs []int64,
) ([]*domain.RequiredDataBinding, error) {
	query := builder().Select(requiredDataBindingColumns...).
		From(tableRequiredDataBindings + " b").
		Join(tableRequiredData + " rd on rd.id = b.required_data_id").
		Where(sq.Eq{"b.scope_type": scopeType}).
		OrderBy("b.id")

	if scopeIDs != nil {
		query = query.Where(sq.Eq{"b.scope_id": scopeIDs})
	}

	var selected []*domain.RequiredDataBinding
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
