package etl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/metrics"
	"github.com/ougirez/sdgdash/internal/pkg/retry"
)

// Trigger asks a running server to re-run the aggregation for the current year.
type Trigger struct {
	endpoint   string
	httpClient *http.Client
	retryCfg   retry.Config
	interval   time.Duration
	now        func() time.Time
}

func NewTrigger(endpoint string, retryCfg retry.Config) *Trigger {
	return &Trigger{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: time.Minute},
		retryCfg:   retryCfg,
		interval:   constants.ETLInterval,
		now:        time.Now,
	}
}

// Fire sends one GET <endpoint>?year=<year>, retried with backoff.
func (t *Trigger) Fire(ctx context.Context, year int) (err error) {
	defer func() {
		metrics.ETLTriggers.WithLabelValues(metrics.Result(err)).Inc()
	}()

	u, err := url.Parse(t.endpoint)
	if err != nil {
		return fmt.Errorf("url.Parse: %w", err)
	}
	q := u.Query()
	q.Set("year", strconv.Itoa(year))
	u.RawQuery = q.Encode()

	return retry.New(t.retryCfg).Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
		}

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("httpClient.Do: %w", err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			if resp.StatusCode < http.StatusInternalServerError {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	})
}

// Run fires once immediately and then on every tick until ctx is done.
func (t *Trigger) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		year := t.now().Year()
		if err := t.Fire(ctx, year); err != nil && ctx.Err() == nil {
			logger.Errorf(ctx, "etl trigger: year %d: %s", year, err.Error())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
