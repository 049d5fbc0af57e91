package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/retry"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/service/auth"
)

type Calculator interface {
	CalculateValue(ctx context.Context, req Request) (float64, error)
}

type Service struct {
	store      store.Store
	calculator Calculator
	retryCfg   retry.Config
	now        func() time.Time
}

func NewService(store store.Store, calculator Calculator, retryCfg retry.Config) *Service {
	return &Service{
		store:      store,
		calculator: calculator,
		retryCfg:   retryCfg,
		now:        time.Now,
	}
}

// Calculate asks the calculator for the value of a rule, retrying transient failures, and
// records the result.
func (s *Service) Calculate(ctx context.Context, request *domain.CalculateRequest) (*domain.CalculateResponse, error) {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, constants.ErrUnauthorized
	}

	rule, err := s.store.GetComputationRule(ctx, request.RuleID)
	if err != nil {
		return nil, fmt.Errorf("GetComputationRule, id-%d: %w", request.RuleID, err)
	}
	if rule.ScopeType != request.ScopeType || rule.ScopeID != request.ScopeID {
		return nil, constants.ErrRuleScopeMismatch
	}

	retrier := retry.New(s.retryCfg)
	value, err := retry.DoValue(ctx, retrier, func(ctx context.Context) (float64, error) {
		v, err := s.calculator.CalculateValue(ctx, Request{
			RuleID:           rule.ID,
			Values:           request.Values,
			CreatedBy:        session.UserID,
			IndicatorType:    rule.ScopeType,
			WithDependencies: request.WithDependencies,
			ScopeID:          rule.ScopeID,
		})
		if err == nil {
			return v, nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return 0, retry.Permanent(err)
		}
		if errors.Is(err, constants.ErrNoComputedValue) {
			return 0, retry.Permanent(err)
		}

		logger.Warnf(ctx, "calculator: rule %d attempt failed: %s", rule.ID, err.Error())
		return 0, err
	})
	if errors.Is(err, constants.ErrNoComputedValue) {
		return nil, err
	}
	if err != nil {
		logger.Errorf(ctx, "calculator: rule %d failed after %d retries: %s", rule.ID, retrier.RetryCount(), err.Error())
		return nil, fmt.Errorf("%w: %s", constants.ErrCalculatorFailed, err.Error())
	}

	record, err := s.store.InsertComputedValue(ctx, &domain.ComputedValue{
		ScopeType: rule.ScopeType,
		ScopeID:   rule.ScopeID,
		RuleID:    rule.ID,
		Value:     value,
		CreatedBy: session.UserID,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("InsertComputedValue: %w", err)
	}

	return &domain.CalculateResponse{
		Value:    value,
		Retries:  retrier.RetryCount(),
		RecordID: record.ID,
	}, nil
}

func (s *Service) ListComputedValues(ctx context.Context, scope domain.Scope) ([]*domain.ComputedValue, error) {
	res, err := s.store.ListComputedValues(ctx, scope.Type, []int64{scope.ID})
	if err != nil {
		return nil, fmt.Errorf("ListComputedValues: %w", err)
	}
	return res, nil
}
