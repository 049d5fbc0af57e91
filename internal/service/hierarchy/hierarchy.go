// Package hierarchy joins flat binding rows into the indicator tree shown for goals and projects.
package hierarchy

import (
	"context"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/domain/dto"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
)

// Rows is everything read from the store for one owner type.
type Rows struct {
	Indicators        []*domain.IndicatorBinding
	SubIndicators     []*domain.SubIndicatorBinding
	IndicatorData     []*domain.RequiredDataBinding
	SubIndicatorData  []*domain.RequiredDataBinding
	IndicatorRules    []*domain.ComputationRule
	SubIndicatorRules []*domain.ComputationRule
}

// Assemble returns the indicator trees keyed by owner id. Children keep the order of the rows.
// Sub-indicators cataloged under a different indicator than their parent binding are dropped.
func Assemble(ctx context.Context, rows Rows) map[int64][]*dto.Indicator {
	indicatorData := groupRequiredData(rows.IndicatorData)
	subIndicatorData := groupRequiredData(rows.SubIndicatorData)
	indicatorRules := indexRules(rows.IndicatorRules)
	subIndicatorRules := indexRules(rows.SubIndicatorRules)

	byOwner := make(map[int64][]*dto.Indicator)
	byID := make(map[int64]*dto.Indicator, len(rows.Indicators))

	for _, b := range rows.Indicators {
		ind := &dto.Indicator{
			ID:              b.ID,
			IndicatorID:     b.IndicatorID,
			Name:            b.IndicatorName,
			Description:     b.IndicatorDescription,
			Baseline:        valueOrZero(b.Baseline),
			Target:          valueOrZero(b.Target),
			SubIndicators:   []*dto.SubIndicator{},
			RequiredData:    orEmpty(indicatorData[b.ID]),
			ComputationRule: indicatorRules[b.ID],
		}
		byID[b.ID] = ind
		byOwner[b.OwnerID] = append(byOwner[b.OwnerID], ind)
	}

	for _, sb := range rows.SubIndicators {
		parent, ok := byID[sb.ParentBindingID]
		if !ok {
			continue
		}
		if sb.CatalogIndicatorID != parent.IndicatorID {
			logger.Warnf(ctx, "hierarchy: sub-indicator binding %d (%s) is cataloged under indicator %d, parent binding %d holds %d, dropped",
				sb.ID, sb.OwnerType, sb.CatalogIndicatorID, parent.ID, parent.IndicatorID)
			continue
		}

		parent.SubIndicators = append(parent.SubIndicators, &dto.SubIndicator{
			ID:              sb.ID,
			SubIndicatorID:  sb.SubIndicatorID,
			Name:            sb.SubIndicatorName,
			Description:     sb.SubIndicatorDescription,
			Baseline:        valueOrZero(sb.Baseline),
			Target:          valueOrZero(sb.Target),
			RequiredData:    orEmpty(subIndicatorData[sb.ID]),
			ComputationRule: subIndicatorRules[sb.ID],
		})
	}

	return byOwner
}

// IndicatorsOf returns the owner's indicators, never nil.
func IndicatorsOf(tree map[int64][]*dto.Indicator, ownerID int64) []*dto.Indicator {
	return orEmpty(tree[ownerID])
}

func groupRequiredData(bindings []*domain.RequiredDataBinding) map[int64][]*dto.RequiredData {
	res := make(map[int64][]*dto.RequiredData)
	for _, b := range bindings {
		res[b.ScopeID] = append(res[b.ScopeID], &dto.RequiredData{
			ID:          b.RequiredDataID,
			Name:        b.Name,
			Description: b.Description,
			Unit:        b.Unit,
		})
	}
	return res
}

func indexRules(rules []*domain.ComputationRule) map[int64]*dto.ComputationRule {
	res := make(map[int64]*dto.ComputationRule, len(rules))
	for _, r := range rules {
		res[r.ScopeID] = &dto.ComputationRule{
			ID:        r.ID,
			Formula:   r.Formula,
			Inherited: r.Inherited,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return res
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
