// Package values records baseline and progress observations of required-data slots.
package values

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/metrics"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/service/auth"
)

type Writer struct {
	store store.Store
	now   func() time.Time
}

func NewWriter(store store.Store) *Writer {
	return &Writer{store: store, now: time.Now}
}

// scopeOf returns the scope the input points at. Exactly one binding id must be set.
func scopeOf(in *domain.ValueInput) (domain.Scope, error) {
	candidates := []struct {
		scopeType domain.ScopeType
		id        *int64
	}{
		{domain.ScopeGoalIndicator, in.GoalIndicatorID},
		{domain.ScopeGoalSubIndicator, in.GoalSubIndicatorID},
		{domain.ScopeProjectIndicator, in.ProjectIndicatorID},
		{domain.ScopeProjectSubIndicator, in.ProjectSubIndicatorID},
	}

	var (
		scope domain.Scope
		found int
	)
	for _, c := range candidates {
		if c.id == nil {
			continue
		}
		found++
		scope = domain.Scope{Type: c.scopeType, ID: *c.id}
	}

	if found != 1 {
		return scope, fmt.Errorf("exactly one of goalIndicatorId, goalSubIndicatorId, projectIndicatorId, projectSubIndicatorId is required, got %d", found)
	}
	if scope.ID <= 0 {
		return scope, fmt.Errorf("invalid %s id %d", scope.Type, scope.ID)
	}
	return scope, nil
}

// Submit validates the whole batch and stores it with a single timestamp. Nothing is written
// unless every tuple is valid and bound to its scope.
func (w *Writer) Submit(
	ctx context.Context,
	kind domain.ValueKind,
	inputs []*domain.ValueInput,
) ([]*domain.RequiredDataValue, error) {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, constants.ErrUnauthorized
	}
	if kind != domain.ValueBaseline && kind != domain.ValueProgress {
		return nil, constants.NewValidationError("unknown value kind %q", kind)
	}
	if len(inputs) == 0 {
		return nil, constants.NewValidationError("empty batch")
	}

	scopes := make([]domain.Scope, len(inputs))
	idsByType := make(map[domain.ScopeType][]int64)
	for i, in := range inputs {
		if in == nil {
			return nil, constants.NewValidationError("values[%d]: empty tuple", i)
		}
		scope, err := scopeOf(in)
		if err != nil {
			return nil, constants.NewValidationError("values[%d]: %s", i, err.Error())
		}
		if in.Value == nil || math.IsNaN(*in.Value) || math.IsInf(*in.Value, 0) {
			return nil, constants.NewValidationError("values[%d]: value must be a finite number", i)
		}
		if in.RequiredDataID <= 0 {
			return nil, constants.NewValidationError("values[%d]: requiredDataId is required", i)
		}
		scopes[i] = scope
		idsByType[scope.Type] = append(idsByType[scope.Type], scope.ID)
	}

	bound := make(map[domain.Scope]map[int64]struct{})
	for scopeType, ids := range idsByType {
		bindings, err := w.store.ListRequiredDataBindings(ctx, scopeType, ids)
		if err != nil {
			return nil, fmt.Errorf("ListRequiredDataBindings, scope-%s: %w", scopeType, err)
		}
		for _, b := range bindings {
			scope := domain.Scope{Type: b.ScopeType, ID: b.ScopeID}
			if bound[scope] == nil {
				bound[scope] = make(map[int64]struct{})
			}
			bound[scope][b.RequiredDataID] = struct{}{}
		}
	}

	createdAt := w.now()
	rows := make([]*domain.RequiredDataValue, 0, len(inputs))
	for i, in := range inputs {
		if _, ok := bound[scopes[i]][in.RequiredDataID]; !ok {
			return nil, constants.NewValidationError("values[%d]: required data %d is not bound to %s", i, in.RequiredDataID, scopes[i])
		}
		rows = append(rows, &domain.RequiredDataValue{
			ScopeType:      scopes[i].Type,
			ScopeID:        scopes[i].ID,
			RequiredDataID: in.RequiredDataID,
			Kind:           kind,
			Value:          *in.Value,
			CreatedBy:      session.UserID,
			CreatedAt:      createdAt,
		})
	}

	inserted, err := w.store.InsertRequiredDataValues(ctx, rows)
	if err != nil {
		logger.Errorf(ctx, "InsertRequiredDataValues: %s", err.Error())
		return nil, fmt.Errorf("InsertRequiredDataValues: %w", err)
	}

	metrics.ValuesWritten.WithLabelValues(string(kind)).Add(float64(len(inserted)))
	logger.Infof(ctx, "values: %d %s rows written by user %d", len(inserted), kind, session.UserID)

	return inserted, nil
}

// ListValues returns the value history of a scope, oldest first.
func (w *Writer) ListValues(ctx context.Context, scope domain.Scope) ([]*domain.RequiredDataValue, error) {
	res, err := w.store.ListRequiredDataValues(ctx, store.ListValuesOpts{
		ScopeType: scope.Type,
		ScopeIDs:  []int64{scope.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("ListRequiredDataValues: %w", err)
	}
	return res, nil
}
