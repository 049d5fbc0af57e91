package store

import (
	"github.com/ougirez/sdgdash/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	UserStore
	CatalogStore
	HierarchyStore
	RuleStore
	ValueStore
	ProjectStore
	GoalDescriptionStore
	ETLStore
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
