// Package calculator talks to the external service that evaluates computation rules.
package calculator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/metrics"
)

// Target selects the calculator operation.
type Target string

const (
	TargetIndicator           Target = "indicator"
	TargetSubIndicator        Target = "sub-indicator"
	TargetProjectIndicator    Target = "project-indicator"
	TargetProjectSubIndicator Target = "project-sub-indicator"
)

func TargetFor(scopeType domain.ScopeType) (Target, error) {
	switch scopeType {
	case domain.ScopeGoalIndicator:
		return TargetIndicator, nil
	case domain.ScopeGoalSubIndicator:
		return TargetSubIndicator, nil
	case domain.ScopeProjectIndicator:
		return TargetProjectIndicator, nil
	case domain.ScopeProjectSubIndicator:
		return TargetProjectSubIndicator, nil
	}
	return "", fmt.Errorf("no calculator target for scope type %q", scopeType)
}

// Path is the endpoint suffix of the target.
func (t Target) Path() string {
	return "/calculate/" + string(t)
}

type Request struct {
	RuleID           int64
	Values           []*domain.NamedValue
	CreatedBy        int64
	IndicatorType    domain.ScopeType
	WithDependencies bool
	ScopeID          int64
}

type requestBody struct {
	RuleID           int64              `json:"rule_id"`
	Values           map[string]float64 `json:"values"`
	CreatedBy        int64              `json:"created_by"`
	ScopeID          int64              `json:"scope_id"`
	WithDependencies bool               `json:"with_dependencies"`
}

type responseBody struct {
	Value *float64 `json:"value"`
}

// StatusError is returned for any non-2xx calculator response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("calculator responded %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether another attempt may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// valueMap builds the name to value mapping sent to the calculator. When a name repeats,
// the later value wins and the collision is logged.
func valueMap(ctx context.Context, values []*domain.NamedValue) map[string]float64 {
	res := make(map[string]float64, len(values))
	for _, v := range values {
		if prev, ok := res[v.Name]; ok {
			logger.Warnf(ctx, "calculator: duplicate value name %q, %v replaced by %v", v.Name, prev, v.Value)
		}
		res[v.Name] = v.Value
	}
	return res
}

// CalculateValue performs exactly one request. It never retries.
func (c *Client) CalculateValue(ctx context.Context, req Request) (value float64, err error) {
	target, err := TargetFor(req.IndicatorType)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	defer func() {
		metrics.CalculatorCalls.WithLabelValues(string(target), metrics.Result(err)).Inc()
		metrics.CalculatorDuration.WithLabelValues(string(target)).Observe(time.Since(start).Seconds())
	}()

	payload, err := sonic.Marshal(&requestBody{
		RuleID:           req.RuleID,
		Values:           valueMap(ctx, req.Values),
		CreatedBy:        req.CreatedBy,
		ScopeID:          req.ScopeID,
		WithDependencies: req.WithDependencies,
	})
	if err != nil {
		return 0, fmt.Errorf("sonic.Marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+target.Path(), bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded responseBody
	if err = sonic.Unmarshal(body, &decoded); err != nil {
		return 0, fmt.Errorf("sonic.Unmarshal: %w", err)
	}
	if decoded.Value == nil {
		return 0, constants.ErrNoComputedValue
	}

	return *decoded.Value, nil
}
