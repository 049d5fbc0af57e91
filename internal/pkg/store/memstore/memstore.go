// Package memstore is an in-memory store.Store used by service and API tests.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu  sync.RWMutex
	seq int64
	// goalSeq follows the goals id sequence, which explicit SDG numbers move forward.
	goalSeq int64

	// Now stamps rows the database would stamp with now().
	Now func() time.Time

	users             []*domain.User
	goals             []*domain.Goal
	indicators        []*domain.Indicator
	subIndicators     []*domain.SubIndicator
	requiredData      []*domain.RequiredData
	indicatorBindings []*domain.IndicatorBinding
	subBindings       []*domain.SubIndicatorBinding
	rdBindings        []*domain.RequiredDataBinding
	rules             []*domain.ComputationRule
	values            []*domain.RequiredDataValue
	computed          []*domain.ComputedValue
	projects          []*domain.Project
	locations         []*domain.Location
	projectLocations  map[int64][]int64
	descriptions      []*domain.GoalDescription
	snapshots         []*domain.GoalProgressSnapshot
}

func New() *Store {
	return &Store{
		Now:              time.Now,
		projectLocations: make(map[int64][]int64),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func copyAll[T any](items []*T, keep func(*T) bool) []*T {
	res := make([]*T, 0, len(items))
	for _, it := range items {
		if keep == nil || keep(it) {
			res = append(res, copyOf(it))
		}
	}
	return res
}

func find[T any](items []*T, match func(*T) bool) *T {
	for _, it := range items {
		if match(it) {
			return it
		}
	}
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func sortByID[T any](items []*T, id func(*T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
