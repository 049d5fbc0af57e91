package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateGoalDescription(_ context.Context, description *domain.GoalDescription) (*domain.GoalDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi := find(s.indicatorBindings, func(b *domain.IndicatorBinding) bool {
		return b.OwnerType == domain.OwnerGoal && b.ID == description.GoalIndicatorID
	})
	if gi == nil {
		return nil, constants.ErrInvalidReference
	}

	d := copyOf(description)
	d.ID = s.nextID()
	d.CreatedAt = s.Now()
	s.descriptions = append(s.descriptions, d)
	return copyOf(d), nil
}

func (s *Store) ListGoalDescriptions(_ context.Context, goalIndicatorID int64) ([]*domain.GoalDescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := copyAll(s.descriptions, func(d *domain.GoalDescription) bool { return d.GoalIndicatorID == goalIndicatorID })
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (s *Store) goalOfScope(scopeType domain.ScopeType, scopeID int64) (int64, bool) {
	switch scopeType {
	case domain.ScopeGoalIndicator:
		if b := find(s.indicatorBindings, func(b *domain.IndicatorBinding) bool {
			return b.OwnerType == domain.OwnerGoal && b.ID == scopeID
		}); b != nil {
			return b.OwnerID, true
		}
	case domain.ScopeGoalSubIndicator:
		if sb := find(s.subBindings, func(b *domain.SubIndicatorBinding) bool {
			return b.OwnerType == domain.OwnerGoal && b.ID == scopeID
		}); sb != nil {
			return s.goalOfScope(domain.ScopeGoalIndicator, sb.ParentBindingID)
		}
	}
	return 0, false
}

func (s *Store) AggregateGoalProgress(_ context.Context, from, to time.Time) ([]*domain.GoalProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byGoal := make(map[int64]*domain.GoalProgress)
	res := make([]*domain.GoalProgress, 0, len(s.goals))
	for _, g := range s.goals {
		if g.Status != domain.StatusActive {
			continue
		}
		gp := &domain.GoalProgress{GoalID: g.ID, Title: g.Name, SumProgress: decimal.Zero}
		byGoal[g.ID] = gp
		res = append(res, gp)
	}

	for _, v := range s.values {
		if v.Kind != domain.ValueProgress || v.CreatedAt.Before(from) || !v.CreatedAt.Before(to) {
			continue
		}
		goalID, ok := s.goalOfScope(v.ScopeType, v.ScopeID)
		if !ok {
			continue
		}
		if gp, ok := byGoal[goalID]; ok {
			gp.SumProgress = gp.SumProgress.Add(decimal.NewFromFloat(v.Value))
			gp.DataEntries++
		}
	}

	sortByID(res, func(gp *domain.GoalProgress) int64 { return gp.GoalID })
	return res, nil
}

func (s *Store) UpsertGoalProgressSnapshots(_ context.Context, snapshots []*domain.GoalProgressSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		existing := find(s.snapshots, func(x *domain.GoalProgressSnapshot) bool {
			return x.GoalID == snap.GoalID && x.Year == snap.Year
		})
		if existing != nil {
			*existing = *snap
			continue
		}
		s.snapshots = append(s.snapshots, copyOf(snap))
	}
	return nil
}

func (s *Store) ListGoalProgressSnapshots(_ context.Context, goalIDs []int64) ([]*domain.GoalProgressSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := copyAll(s.snapshots, func(x *domain.GoalProgressSnapshot) bool {
		return goalIDs == nil || contains(goalIDs, x.GoalID)
	})
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].GoalID != res[j].GoalID {
			return res[i].GoalID < res[j].GoalID
		}
		return res[i].Year < res[j].Year
	})
	return res, nil
}
