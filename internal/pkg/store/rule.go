package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/store/xpgx"
)

type RuleStore interface {
	GetComputationRule(ctx context.Context, id int64) (*domain.ComputationRule, error)
	ListComputationRules(ctx context.Context, scopeType domain.ScopeType, scopeIDs []int64) ([]*domain.ComputationRule, error)
	// ReplaceComputationRule upserts rule as an explicit rule of its scope and, in the same
	// transaction, writes each of inherited unless its scope already holds an explicit rule.
	// It returns the explicit rule and the inherited rules that were actually written.
	ReplaceComputationRule(
		ctx context.Context,
		rule *domain.ComputationRule,
		inherited []*domain.ComputationRule,
	) (*domain.ComputationRule, []*domain.ComputationRule, error)
}

var computationRuleColumns = []string{"id", "scope_type", "scope_id", "formula", "inherited", "created_by", "updated_at"}

func (s *store) GetComputationRule(ctx context.Context, id int64) (*domain.ComputationRule, error) {
	query := builder().Select(computationRuleColumns...).
		From(tableComputationRules).
		Where(sq.Eq{"id": id})

	selected := new(domain.ComputationRule)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListComputationRules(
	ctx context.Context,
	scopeType domain.ScopeType,
	scopeIDs []int64,
) ([]*domain.ComputationRule, error) {
	query := builder().Select(computationRuleColumns...).
		From(tableComputationRules).
		Where(sq.Eq{"scope_type": scopeType}).
		OrderBy("id")

	if scopeIDs != nil {
		query = query.Where(sq.Eq{"scope_id": scopeIDs})
	}

	var selected []*domain.ComputationRule
	err := s.pool.Selectx(ctx, &selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func upsertRuleQuery(rule *domain.ComputationRule, inherited bool) sq.InsertBuilder {
	query := builder().Insert(tableComputationRules).
		Columns("scope_type", "scope_id", "formula", "inherited", "created_by", "updated_at").
		Values(rule.ScopeType, rule.ScopeID, rule.Formula, inherited, rule.CreatedBy, sq.Expr("now()"))

	suffix := `
on conflict (scope_type, scope_id)
do update
set
	formula = excluded.formula,
	inherited = excluded.inherited,
	created_by = excluded.created_by,
	updated_at = excluded.updated_at`

	if inherited {
		suffix += `
where computation_rules.inherited`
	}

	return query.Suffix(suffix + "\nRETURNING " + joinColumns(computationRuleColumns))
}

func (s *store) ReplaceComputationRule(
	ctx context.Context,
	rule *domain.ComputationRule,
	inherited []*domain.ComputationRule,
) (*domain.ComputationRule, []*domain.ComputationRule, error) {
	var (
		explicit *domain.ComputationRule
		written  = make([]*domain.ComputationRule, 0, len(inherited))
	)

	err := s.pool.InTx(ctx, func(tx xpgx.Queryx) error {
		explicit = new(domain.ComputationRule)
		if err := tx.Getx(ctx, explicit, upsertRuleQuery(rule, false)); err != nil {
			return fmt.Errorf("upsert rule, scope-%s:%d: %w", rule.ScopeType, rule.ScopeID, wrapErr(err))
		}

		for _, child := range inherited {
			// An explicit override makes the conditional upsert return no row.
			var rows []*domain.ComputationRule
			if err := tx.Selectx(ctx, &rows, upsertRuleQuery(child, true)); err != nil {
				return fmt.Errorf("upsert inherited rule, scope-%s:%d: %w", child.ScopeType, child.ScopeID, wrapErr(err))
			}
			written = append(written, rows...)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return explicit, written, nil
}
