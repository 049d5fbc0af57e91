package values

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/memstore"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memstore.Store
	writer *Writer
	ctx    context.Context
	gi     *domain.IndicatorBinding
	slotA  *domain.RequiredData
	slotB  *domain.RequiredData
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	ctx := context.Background()

	goal, err := st.CreateGoal(ctx, &domain.Goal{ID: 1, Name: "No poverty"})
	require.NoError(t, err)
	ind, err := st.CreateIndicator(ctx, &domain.Indicator{Name: "poverty rate"})
	require.NoError(t, err)
	gi, err := st.CreateIndicatorBinding(ctx, &domain.IndicatorBinding{OwnerType: domain.OwnerGoal, OwnerID: goal.ID, IndicatorID: ind.ID})
	require.NoError(t, err)
	slotA, err := st.CreateRequiredData(ctx, &domain.RequiredData{Name: "poor"})
	require.NoError(t, err)
	slotB, err := st.CreateRequiredData(ctx, &domain.RequiredData{Name: "population"})
	require.NoError(t, err)
	_, err = st.BindRequiredData(ctx, domain.Scope{Type: domain.ScopeGoalIndicator, ID: gi.ID}, slotA.ID)
	require.NoError(t, err)

	return &fixture{
		store:  st,
		writer: NewWriter(st),
		ctx:    auth.ContextWithSession(ctx, &domain.Session{UserID: 5, RoleID: domain.RoleDataOfficer}),
		gi:     gi,
		slotA:  slotA,
		slotB:  slotB,
	}
}

func id(v int64) *int64      { return &v }
func num(v float64) *float64 { return &v }

func TestSubmitAppendsHistory(t *testing.T) {
	f := newFixture(t)

	stamps := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	calls := 0
	f.writer.now = func() time.Time {
		calls++
		return stamps[calls-1]
	}

	first, err := f.writer.Submit(f.ctx, domain.ValueProgress, []*domain.ValueInput{
		{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(10)},
		{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(11)},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first[0].CreatedAt, first[1].CreatedAt, "one timestamp per batch")
	assert.Equal(t, int64(5), first[0].CreatedBy)

	scope := domain.Scope{Type: domain.ScopeGoalIndicator, ID: f.gi.ID}
	before, err := f.writer.ListValues(f.ctx, scope)
	require.NoError(t, err)

	second, err := f.writer.Submit(f.ctx, domain.ValueProgress, []*domain.ValueInput{
		{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(12)},
	})
	require.NoError(t, err)

	after, err := f.writer.ListValues(f.ctx, scope)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	assert.Equal(t, before, after[:len(before)], "existing rows are untouched")
	assert.Equal(t, second[0], after[len(after)-1])
	for i := 1; i < len(after); i++ {
		assert.False(t, after[i].CreatedAt.Before(after[i-1].CreatedAt))
	}
}

func TestSubmitIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	scope := domain.Scope{Type: domain.ScopeGoalIndicator, ID: f.gi.ID}

	tests := []struct {
		name   string
		inputs []*domain.ValueInput
	}{
		{"empty", nil},
		{"unbound slot", []*domain.ValueInput{
			{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(1)},
			{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotB.ID, Value: num(2)},
		}},
		{"unknown scope", []*domain.ValueInput{
			{GoalSubIndicatorID: id(404), RequiredDataID: f.slotA.ID, Value: num(1)},
		}},
		{"two scopes", []*domain.ValueInput{
			{GoalIndicatorID: id(f.gi.ID), ProjectIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(1)},
		}},
		{"no scope", []*domain.ValueInput{{RequiredDataID: f.slotA.ID, Value: num(1)}}},
		{"not finite", []*domain.ValueInput{
			{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(math.Inf(1))},
		}},
		{"missing value", []*domain.ValueInput{{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.writer.Submit(f.ctx, domain.ValueBaseline, tt.inputs)
			var ce *constants.CodedError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, 400, ce.Code())

			history, err := f.writer.ListValues(f.ctx, scope)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestSubmitRequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.writer.Submit(context.Background(), domain.ValueProgress, []*domain.ValueInput{
		{GoalIndicatorID: id(f.gi.ID), RequiredDataID: f.slotA.ID, Value: num(1)},
	})
	assert.ErrorIs(t, err, constants.ErrUnauthorized)
}
