package hierarchy

import (
	"context"
	"testing"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memstore.Store
	svc        *Service
	goal       *domain.Goal
	poverty    *domain.Indicator
	hunger     *domain.Indicator
	rural      *domain.SubIndicator
	crops      *domain.SubIndicator
	population *domain.RequiredData
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memstore.New()

	f := &fixture{store: st, svc: NewService(st)}

	var err error
	f.goal, err = st.CreateGoal(ctx, &domain.Goal{ID: 1, Name: "No poverty"})
	require.NoError(t, err)
	f.poverty, err = st.CreateIndicator(ctx, &domain.Indicator{Name: "poverty rate"})
	require.NoError(t, err)
	f.hunger, err = st.CreateIndicator(ctx, &domain.Indicator{Name: "hunger"})
	require.NoError(t, err)
	f.rural, err = st.CreateSubIndicator(ctx, &domain.SubIndicator{IndicatorID: f.poverty.ID, Name: "rural"})
	require.NoError(t, err)
	f.crops, err = st.CreateSubIndicator(ctx, &domain.SubIndicator{IndicatorID: f.hunger.ID, Name: "crops"})
	require.NoError(t, err)
	f.population, err = st.CreateRequiredData(ctx, &domain.RequiredData{Name: "population"})
	require.NoError(t, err)

	return f
}

func TestAddSubIndicatorChecksCatalogParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gi, err := f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.poverty.ID})
	require.NoError(t, err)

	_, err = f.svc.AddSubIndicator(ctx, domain.OwnerGoal, gi.ID, &domain.AddSubIndicatorRequest{SubIndicatorID: f.crops.ID})
	var ce *constants.CodedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.Code())

	sub, err := f.svc.AddSubIndicator(ctx, domain.OwnerGoal, gi.ID, &domain.AddSubIndicatorRequest{SubIndicatorID: f.rural.ID})
	require.NoError(t, err)
	assert.Equal(t, f.poverty.ID, sub.CatalogIndicatorID)

	_, err = f.svc.AddSubIndicator(ctx, domain.OwnerProject, gi.ID, &domain.AddSubIndicatorRequest{SubIndicatorID: f.rural.ID})
	assert.ErrorIs(t, err, constants.ErrDBNotFound, "goal binding id is not a project binding")
}

func TestAddIndicatorRejectsInactiveAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.SetIndicatorStatus(ctx, f.hunger.ID, domain.StatusInactive))

	_, err := f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.hunger.ID})
	assert.Error(t, err)

	_, err = f.svc.AddIndicator(ctx, domain.OwnerGoal, 99, &domain.AddIndicatorRequest{IndicatorID: f.poverty.ID})
	assert.ErrorIs(t, err, constants.ErrDBNotFound)

	_, err = f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.poverty.ID})
	require.NoError(t, err)
	_, err = f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.poverty.ID})
	assert.ErrorIs(t, err, constants.ErrAlreadyExists)
}

func TestBindRequiredDataAndTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.BindRequiredData(ctx, &domain.BindRequiredDataRequest{
		ScopeType: domain.ScopeGoalIndicator, ScopeID: 404, RequiredDataID: f.population.ID,
	})
	assert.ErrorIs(t, err, constants.ErrDBNotFound)

	gi, err := f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.poverty.ID})
	require.NoError(t, err)
	_, err = f.svc.BindRequiredData(ctx, &domain.BindRequiredDataRequest{
		ScopeType: domain.ScopeGoalIndicator, ScopeID: gi.ID, RequiredDataID: f.population.ID,
	})
	require.NoError(t, err)

	names, err := f.svc.SlotNames(ctx, domain.ScopeGoalIndicator, []int64{gi.ID, 77})
	require.NoError(t, err)
	assert.Equal(t, []string{"population"}, names[gi.ID])
	assert.Equal(t, []string{}, names[77])

	for _, ids := range [][]int64{nil, {f.goal.ID}} {
		tree, err := f.svc.Tree(ctx, domain.OwnerGoal, ids)
		require.NoError(t, err)
		indicators := IndicatorsOf(tree, f.goal.ID)
		require.Len(t, indicators, 1)
		assert.Equal(t, "population", indicators[0].RequiredData[0].Name)
	}
}

func TestTreeSkipsInactiveIndicators(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.poverty.ID})
	require.NoError(t, err)
	hunger, err := f.svc.AddIndicator(ctx, domain.OwnerGoal, f.goal.ID, &domain.AddIndicatorRequest{IndicatorID: f.hunger.ID})
	require.NoError(t, err)
	_, err = f.svc.AddSubIndicator(ctx, domain.OwnerGoal, hunger.ID, &domain.AddSubIndicatorRequest{SubIndicatorID: f.crops.ID})
	require.NoError(t, err)

	require.NoError(t, f.store.SetIndicatorStatus(ctx, f.hunger.ID, domain.StatusInactive))

	for _, ids := range [][]int64{nil, {f.goal.ID}} {
		tree, err := f.svc.Tree(ctx, domain.OwnerGoal, ids)
		require.NoError(t, err)
		indicators := IndicatorsOf(tree, f.goal.ID)
		require.Len(t, indicators, 1)
		assert.Equal(t, f.poverty.ID, indicators[0].IndicatorID)
	}

	// The binding itself stays addressable for rules and values.
	_, err = f.store.GetIndicatorBinding(ctx, domain.OwnerGoal, hunger.ID)
	assert.NoError(t, err)
}
