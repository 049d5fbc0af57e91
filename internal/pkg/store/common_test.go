package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapErr(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", fmt.Errorf("select: %w", pgx.ErrNoRows), constants.ErrDBNotFound},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}, constants.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, constants.ErrInvalidReference},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapErr(tt.err), tt.want)
		})
	}

	assert.NoError(t, wrapErr(nil))
}

func TestUpsertRuleQuery(t *testing.T) {
	rule := &domain.ComputationRule{ScopeType: domain.ScopeGoalSubIndicator, ScopeID: 7, Formula: "a / b", CreatedBy: 3}

	explicit, _, err := upsertRuleQuery(rule, false).ToSql()
	require.NoError(t, err)
	assert.Contains(t, explicit, "on conflict (scope_type, scope_id)")
	assert.NotContains(t, explicit, "where computation_rules.inherited")

	inherited, args, err := upsertRuleQuery(rule, true).ToSql()
	require.NoError(t, err)
	assert.Contains(t, inherited, "where computation_rules.inherited")
	assert.Contains(t, inherited, "RETURNING id, scope_type")
	assert.Equal(t, []any{domain.ScopeGoalSubIndicator, int64(7), "a / b", true, int64(3)}, args)
}

func TestBindingQueriesFollowOwner(t *testing.T) {
	goalSQL, _, err := indicatorBindingQuery(domain.OwnerGoal).ToSql()
	require.NoError(t, err)
	assert.Contains(t, goalSQL, "FROM goal_indicators b")
	assert.Contains(t, goalSQL, "b.goal_id as owner_id")

	projectSQL, _, err := subIndicatorBindingQuery(domain.OwnerProject).ToSql()
	require.NoError(t, err)
	assert.Contains(t, projectSQL, "FROM project_sub_indicators b")
	assert.Contains(t, projectSQL, "b.project_indicator_id as parent_binding_id")
	assert.Contains(t, projectSQL, "si.indicator_id as catalog_indicator_id")
}

func TestCreateGoalQuery(t *testing.T) {
	generated, args, err := createGoalQuery(&domain.Goal{Name: "Local goal"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, generated, "INSERT INTO goals (name,description)")
	assert.Equal(t, []any{"Local goal", ""}, args)

	explicit, args, err := createGoalQuery(&domain.Goal{ID: 3, Name: "Good health"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, explicit, "INSERT INTO goals (id,name,description)")
	assert.Equal(t, []any{int64(3), "Good health", ""}, args)

	assert.Contains(t, syncGoalIDSequence, "pg_get_serial_sequence('goals', 'id')")
}
