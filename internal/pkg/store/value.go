package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
)

type ListValuesOpts struct {
	ScopeType domain.ScopeType
	ScopeIDs  []int64
	Kind      *domain.ValueKind
}

type ValueStore interface {
	// InsertRequiredDataValues writes the whole batch with one statement: either every row is stored or none.
	InsertRequiredDataValues(ctx context.Context, values []*domain.RequiredDataValue) ([]*domain.RequiredDataValue, error)
	ListRequiredDataValues(ctx context.Context, opts ListValuesOpts) ([]*domain.RequiredDataValue, error)

	InsertComputedValue(ctx context.Context, value *domain.ComputedValue) (*domain.ComputedValue, error)
	ListComputedValues(ctx context.Context, scopeType domain.ScopeType, scopeIDs []int64) ([]*domain.ComputedValue, error)
}

var (
	requiredDataValueColumns = []string{"id", "scope_type", "scope_id", "required_data_id", "kind", "value", "created_by", "created_at"}
	computedValueColumns     = []string{"id", "scope_type", "scope_id", "rule_id", "value", "created_by", "created_at"}
)

func (s *store) InsertRequiredDataValues(
	ctx context.Context,
	values []*domain.RequiredDataValue,
) ([]*domain.RequiredDataValue, error) {
	if len(values) == 0 {
		return []*domain.RequiredDataValue{}, nil
	}

	query := builder().Insert(tableRequiredDataValues).
		Columns(requiredDataValueColumns[1:]...)

	for _, v := range values {
		query = query.Values(v.ScopeType, v.ScopeID, v.RequiredDataID, v.Kind, v.Value, v.CreatedBy, v.CreatedAt)
	}

	query = query.Suffix("RETURNING " + joinColumns(requiredDataValueColumns))

	var inserted []*domain.RequiredDataValue
	err := s.pool.Selectx(ctx, &inserted, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return inserted, nil
}

func (s *store) ListRequiredDataValues(ctx context.Context, opts ListValuesOpts) ([]*domain.RequiredDataValue, error) {
	query := builder().Select(requiredDataValueColumns...).
		From(tableRequiredDataValues).
		Where(sq.Eq{"scope_type": opts.ScopeType}).
		OrderBy("created_at", "id")

	if opts.ScopeIDs != nil {
		query = query.Where(sq.Eq{"scope_id": opts.ScopeIDs})
	}

	if opts.Kind != nil {
		query = query.Where(sq.Eq{"kind": *opts.Kind})
	}

	var selected []*domain.RequiredDataValue
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) InsertComputedValue(ctx context.Context, value *domain.ComputedValue) (*domain.ComputedValue, error) {
	query := builder().Insert(tableComputedValues).
		Columns(computedValueColumns[1:]...).
		Values(value.ScopeType, value.ScopeID, value.RuleID, value.Value, value.CreatedBy, value.CreatedAt).
		Suffix("RETURNING " + joinColumns(computedValueColumns))

	inserted := new(domain.ComputedValue)
	err := s.pool.Getx(ctx, inserted, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return inserted, nil
}

func (s *store) ListComputedValues(
	ctx context.Context,
	scopeType domain.ScopeType,
	scopeIDs []int64,
) ([]*domain.ComputedValue, error) {
	query := builder().Select(computedValueColumns...).
		From(tableComputedValues).
		Where(sq.Eq{"scope_type": scopeType}).
		OrderBy("created_at", "id")

	if scopeIDs != nil {
		query = query.Where(sq.Eq{"scope_id": scopeIDs})
	}

	var selected []*domain.ComputedValue
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
