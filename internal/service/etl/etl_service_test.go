package etl

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeded struct {
	store *memstore.Store
	gi    *domain.IndicatorBinding
	slot  *domain.RequiredData
}

// seed creates three goals; only the first one has an indicator with a bound slot.
func seed(t *testing.T) *seeded {
	t.Helper()
	st := memstore.New()
	ctx := context.Background()

	for id, name := range map[int64]string{1: "No poverty", 2: "Zero hunger", 3: "Good health"} {
		_, err := st.CreateGoal(ctx, &domain.Goal{ID: id, Name: name})
		require.NoError(t, err)
	}
	ind, err := st.CreateIndicator(ctx, &domain.Indicator{Name: "poverty rate"})
	require.NoError(t, err)
	slot, err := st.CreateRequiredData(ctx, &domain.RequiredData{Name: "rate"})
	require.NoError(t, err)
	gi, err := st.CreateIndicatorBinding(ctx, &domain.IndicatorBinding{OwnerType: domain.OwnerGoal, OwnerID: 1, IndicatorID: ind.ID})
	require.NoError(t, err)

	return &seeded{store: st, gi: gi, slot: slot}
}

func (s *seeded) write(t *testing.T, kind domain.ValueKind, at time.Time, values ...float64) {
	t.Helper()
	batch := make([]*domain.RequiredDataValue, 0, len(values))
	for _, v := range values {
		batch = append(batch, &domain.RequiredDataValue{
			ScopeType:      domain.ScopeGoalIndicator,
			ScopeID:        s.gi.ID,
			RequiredDataID: s.slot.ID,
			Kind:           kind,
			Value:          v,
			CreatedAt:      at,
		})
	}
	_, err := s.store.InsertRequiredDataValues(context.Background(), batch)
	require.NoError(t, err)
}

func TestRunYearWithoutData(t *testing.T) {
	s := seed(t)
	s.write(t, domain.ValueProgress, time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC), 10, 20)
	s.write(t, domain.ValueProgress, time.Date(2022, time.December, 31, 23, 59, 59, 0, time.UTC), 30)

	res, err := NewService(s.store).Run(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, 2023, res.Year)
	require.Len(t, res.Results, 3)
	for _, r := range res.Results {
		assert.Zero(t, r.AvgProgress, r.Title)
		assert.Zero(t, r.DataEntries, r.Title)
	}
}

func TestRunAveragesWithinYear(t *testing.T) {
	s := seed(t)
	s.write(t, domain.ValueProgress, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), 1, 2)
	s.write(t, domain.ValueProgress, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), 2)
	s.write(t, domain.ValueProgress, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 100)
	s.write(t, domain.ValueBaseline, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), 50)

	svc := NewService(s.store)
	res, err := svc.Run(context.Background(), 2023)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)

	assert.Equal(t, int64(1), res.Results[0].GoalID)
	assert.Equal(t, 1.6667, res.Results[0].AvgProgress)
	assert.Equal(t, int64(3), res.Results[0].DataEntries)
	assert.Zero(t, res.Results[1].DataEntries)

	snapshots, err := s.store.ListGoalProgressSnapshots(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 1.6667, snapshots[0].AvgProgress)

	_, err = svc.Run(context.Background(), 2023)
	require.NoError(t, err)
	snapshots, err = s.store.ListGoalProgressSnapshots(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, snapshots, 3)
}

func TestRunRejectsYearOutOfRange(t *testing.T) {
	_, err := NewService(memstore.New()).Run(context.Background(), 0)

	var coded *constants.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, http.StatusBadRequest, coded.Code())
}

func TestYearBounds(t *testing.T) {
	from, to := YearBounds(2023)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
