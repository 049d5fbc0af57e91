package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store"
)

func (s *Store) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if find(s.users, func(u *domain.User) bool { return strings.EqualFold(u.Email, user.Email) }) != nil {
		return nil, constants.ErrAlreadyExists
	}

	u := copyOf(user)
	u.ID = s.nextID()
	u.CreatedAt = s.Now()
	s.users = append(s.users, u)
	return copyOf(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := find(s.users, func(u *domain.User) bool { return strings.EqualFold(u.Email, email) }); u != nil {
		return copyOf(u), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := find(s.users, func(u *domain.User) bool { return u.ID == id }); u != nil {
		return copyOf(u), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) CreateGoal(_ context.Context, goal *domain.Goal) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := copyOf(goal)
	if g.ID == 0 {
		s.goalSeq++
		g.ID = s.goalSeq
	}
	if find(s.goals, func(x *domain.Goal) bool { return x.ID == g.ID }) != nil {
		return nil, constants.ErrAlreadyExists
	}
	s.goalSeq = max(s.goalSeq, g.ID)
	g.Status = domain.StatusActive
	g.CreatedAt, g.UpdatedAt = s.Now(), s.Now()
	s.goals = append(s.goals, g)
	return copyOf(g), nil
}

func (s *Store) UpsertGoals(_ context.Context, goals []*domain.Goal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(goals))
	for _, goal := range goals {
		if _, dup := seen[goal.ID]; dup {
			return 0, fmt.Errorf("upsert goals: id %d affected twice in one statement", goal.ID)
		}
		seen[goal.ID] = struct{}{}
	}

	for _, goal := range goals {
		s.goalSeq = max(s.goalSeq, goal.ID)
		if g := find(s.goals, func(x *domain.Goal) bool { return x.ID == goal.ID }); g != nil {
			g.Name, g.Description, g.UpdatedAt = goal.Name, goal.Description, s.Now()
			continue
		}
		g := copyOf(goal)
		g.Status = domain.StatusActive
		g.CreatedAt, g.UpdatedAt = s.Now(), s.Now()
		s.goals = append(s.goals, g)
	}
	return int64(len(goals)), nil
}

func (s *Store) GetGoal(_ context.Context, id int64) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g := find(s.goals, func(g *domain.Goal) bool { return g.ID == id }); g != nil {
		return copyOf(g), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) ListGoals(_ context.Context) ([]*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := copyAll(s.goals, func(g *domain.Goal) bool { return g.Status == domain.StatusActive })
	sortByID(res, func(g *domain.Goal) int64 { return g.ID })
	return res, nil
}

func (s *Store) CreateIndicator(_ context.Context, indicator *domain.Indicator) (*domain.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := copyOf(indicator)
	i.ID = s.nextID()
	i.Status = domain.StatusActive
	i.CreatedAt, i.UpdatedAt = s.Now(), s.Now()
	s.indicators = append(s.indicators, i)
	return copyOf(i), nil
}

func (s *Store) GetIndicator(_ context.Context, id int64) (*domain.Indicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := find(s.indicators, func(i *domain.Indicator) bool { return i.ID == id }); i != nil {
		return copyOf(i), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) ListIndicators(_ context.Context, opts store.ListIndicatorsOpts) ([]*domain.Indicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.indicators, func(i *domain.Indicator) bool {
		if opts.Status != nil && i.Status != *opts.Status {
			return false
		}
		return opts.IDs == nil || contains(opts.IDs, i.ID)
	}), nil
}

func (s *Store) SetIndicatorStatus(_ context.Context, id int64, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := find(s.indicators, func(i *domain.Indicator) bool { return i.ID == id })
	if i == nil {
		return constants.ErrDBNotFound
	}
	i.Status, i.UpdatedAt = status, s.Now()
	return nil
}

func (s *Store) CreateSubIndicator(_ context.Context, sub *domain.SubIndicator) (*domain.SubIndicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if find(s.indicators, func(i *domain.Indicator) bool { return i.ID == sub.IndicatorID }) == nil {
		return nil, constants.ErrInvalidReference
	}

	si := copyOf(sub)
	si.ID = s.nextID()
	si.Status = domain.StatusActive
	si.CreatedAt, si.UpdatedAt = s.Now(), s.Now()
	s.subIndicators = append(s.subIndicators, si)
	return copyOf(si), nil
}

func (s *Store) GetSubIndicator(_ context.Context, id int64) (*domain.SubIndicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if si := find(s.subIndicators, func(si *domain.SubIndicator) bool { return si.ID == id }); si != nil {
		return copyOf(si), nil
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) ListSubIndicators(_ context.Context, indicatorID int64) ([]*domain.SubIndicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.subIndicators, func(si *domain.SubIndicator) bool {
		return si.IndicatorID == indicatorID && si.Status == domain.StatusActive
	}), nil
}

func (s *Store) CreateRequiredData(_ context.Context, rd *domain.RequiredData) (*domain.RequiredData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if find(s.requiredData, func(x *domain.RequiredData) bool { return x.Name == rd.Name }) != nil {
		return nil, constants.ErrAlreadyExists
	}

	r := copyOf(rd)
	r.ID = s.nextID()
	r.Status = domain.StatusActive
	r.CreatedAt = s.Now()
	s.requiredData = append(s.requiredData, r)
	return copyOf(r), nil
}

func (s *Store) ListRequiredData(_ context.Context) ([]*domain.RequiredData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.requiredData, func(rd *domain.RequiredData) bool { return rd.Status == domain.StatusActive }), nil
}
