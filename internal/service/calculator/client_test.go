package calculator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path string
	body map[string]any
}

func newCalculatorServer(t *testing.T, status int, reply string) (*httptest.Server, *[]captured) {
	t.Helper()
	var calls []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, captured{path: r.URL.Path, body: body})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCalculateValueTargets(t *testing.T) {
	cases := map[domain.ScopeType]string{
		domain.ScopeGoalIndicator:       "/api/calculate/indicator",
		domain.ScopeGoalSubIndicator:    "/api/calculate/sub-indicator",
		domain.ScopeProjectIndicator:    "/api/calculate/project-indicator",
		domain.ScopeProjectSubIndicator: "/api/calculate/project-sub-indicator",
	}

	for scopeType, path := range cases {
		t.Run(string(scopeType), func(t *testing.T) {
			srv, calls := newCalculatorServer(t, http.StatusOK, `{"value": 12.5}`)
			c := NewClient(srv.URL+"/api/", time.Second)

			v, err := c.CalculateValue(context.Background(), Request{
				RuleID:           3,
				Values:           []*domain.NamedValue{{Name: "poor", Value: 5}, {Name: "total", Value: 40}},
				CreatedBy:        7,
				IndicatorType:    scopeType,
				WithDependencies: true,
				ScopeID:          11,
			})
			require.NoError(t, err)
			assert.Equal(t, 12.5, v)

			require.Len(t, *calls, 1)
			got := (*calls)[0]
			assert.Equal(t, path, got.path)
			assert.Equal(t, float64(3), got.body["rule_id"])
			assert.Equal(t, float64(7), got.body["created_by"])
			assert.Equal(t, float64(11), got.body["scope_id"])
			assert.Equal(t, true, got.body["with_dependencies"])
			assert.Equal(t, map[string]any{"poor": float64(5), "total": float64(40)}, got.body["values"])
		})
	}
}

func TestCalculateValueDuplicateNameLastWins(t *testing.T) {
	srv, calls := newCalculatorServer(t, http.StatusOK, `{"value": 1}`)
	c := NewClient(srv.URL, time.Second)

	_, err := c.CalculateValue(context.Background(), Request{
		IndicatorType: domain.ScopeGoalIndicator,
		Values:        []*domain.NamedValue{{Name: "x", Value: 1}, {Name: "x", Value: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": float64(2)}, (*calls)[0].body["values"])
}

func TestCalculateValueFailures(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv, calls := newCalculatorServer(t, http.StatusServiceUnavailable, `down`)
		c := NewClient(srv.URL, time.Second)

		_, err := c.CalculateValue(context.Background(), Request{IndicatorType: domain.ScopeGoalIndicator})

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Equal(t, "down", statusErr.Body)
		assert.True(t, statusErr.Temporary())
		assert.Len(t, *calls, 1)
	})

	t.Run("null value", func(t *testing.T) {
		srv, _ := newCalculatorServer(t, http.StatusOK, `{"value": null}`)
		c := NewClient(srv.URL, time.Second)

		_, err := c.CalculateValue(context.Background(), Request{IndicatorType: domain.ScopeGoalIndicator})
		assert.ErrorIs(t, err, constants.ErrNoComputedValue)
	})

	t.Run("unknown target", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", time.Second)

		_, err := c.CalculateValue(context.Background(), Request{IndicatorType: "region"})
		assert.Error(t, err)
	})
}
