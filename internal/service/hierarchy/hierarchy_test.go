package hierarchy

import (
	"context"
	"testing"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestAssemble(t *testing.T) {
	rows := Rows{
		Indicators: []*domain.IndicatorBinding{
			{ID: 10, OwnerType: domain.OwnerGoal, OwnerID: 1, IndicatorID: 100, IndicatorName: "poverty", Target: ptr(5)},
			{ID: 11, OwnerType: domain.OwnerGoal, OwnerID: 1, IndicatorID: 101, IndicatorName: "hunger", Baseline: ptr(2)},
			{ID: 12, OwnerType: domain.OwnerGoal, OwnerID: 2, IndicatorID: 100, IndicatorName: "poverty"},
		},
		SubIndicators: []*domain.SubIndicatorBinding{
			{ID: 20, ParentBindingID: 10, SubIndicatorID: 200, CatalogIndicatorID: 100, SubIndicatorName: "rural"},
			{ID: 21, ParentBindingID: 10, SubIndicatorID: 201, CatalogIndicatorID: 101, SubIndicatorName: "misplaced"},
			{ID: 22, ParentBindingID: 10, SubIndicatorID: 202, CatalogIndicatorID: 100, SubIndicatorName: "urban"},
		},
		IndicatorData: []*domain.RequiredDataBinding{
			{ScopeType: domain.ScopeGoalIndicator, ScopeID: 10, RequiredDataID: 1, Name: "population"},
		},
		SubIndicatorData: []*domain.RequiredDataBinding{
			{ScopeType: domain.ScopeGoalSubIndicator, ScopeID: 22, RequiredDataID: 2, Name: "households"},
		},
		IndicatorRules: []*domain.ComputationRule{
			{ID: 5, ScopeType: domain.ScopeGoalIndicator, ScopeID: 10, Formula: "population * 2"},
		},
		SubIndicatorRules: []*domain.ComputationRule{
			{ID: 6, ScopeType: domain.ScopeGoalSubIndicator, ScopeID: 20, Formula: "population", Inherited: true},
		},
	}

	tree := Assemble(context.Background(), rows)

	goal1 := IndicatorsOf(tree, 1)
	require.Len(t, goal1, 2)

	poverty := goal1[0]
	assert.Equal(t, "poverty", poverty.Name)
	assert.Equal(t, 0.0, poverty.Baseline)
	assert.Equal(t, 5.0, poverty.Target)
	require.NotNil(t, poverty.ComputationRule)
	assert.Equal(t, "population * 2", poverty.ComputationRule.Formula)
	require.Len(t, poverty.RequiredData, 1)

	require.Len(t, poverty.SubIndicators, 2, "sub-indicator cataloged elsewhere is dropped")
	assert.Equal(t, "rural", poverty.SubIndicators[0].Name)
	assert.True(t, poverty.SubIndicators[0].ComputationRule.Inherited)
	assert.NotNil(t, poverty.SubIndicators[0].RequiredData)
	assert.Empty(t, poverty.SubIndicators[0].RequiredData)
	assert.Equal(t, "urban", poverty.SubIndicators[1].Name)
	assert.Len(t, poverty.SubIndicators[1].RequiredData, 1)

	hunger := goal1[1]
	assert.Equal(t, 2.0, hunger.Baseline)
	assert.NotNil(t, hunger.SubIndicators)
	assert.NotNil(t, hunger.RequiredData)
	assert.Nil(t, hunger.ComputationRule)

	assert.Len(t, IndicatorsOf(tree, 2), 1)
	empty := IndicatorsOf(tree, 3)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
