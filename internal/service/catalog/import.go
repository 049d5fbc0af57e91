package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	goalItemSelector        = "li.sdg-goal"
	goalNumberSelector      = ".sdg-goal-number"
	goalTitleSelector       = ".sdg-goal-title"
	goalDescriptionSelector = ".sdg-goal-description"

	detailFetchLimit = 4
)

type ImportResult struct {
	Imported int64          `json:"imported"`
	Goals    []*domain.Goal `json:"goals"`
}

// ImportGoals reads the goal list page at listURL, follows each goal's link for its description
// and upserts the goals keyed by their SDG number.
func (s *Service) ImportGoals(ctx context.Context, listURL string) (*ImportResult, error) {
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, constants.NewValidationError("invalid url: %s", err.Error())
	}

	doc, err := s.fetchDocument(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetchDocument, url-%s: %w", listURL, err)
	}

	goals := make([]*domain.Goal, 0, 17)
	goalsMx := sync.Mutex{}
	seen := make(map[int64]struct{}, 17)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(detailFetchLimit)

	doc.Find(goalItemSelector).EachWithBreak(func(_ int, li *goquery.Selection) bool {
		numberText := strings.TrimSpace(li.Find(goalNumberSelector).First().Text())
		title := li.Find(goalTitleSelector).First()
		name := strings.TrimSpace(title.Text())

		number, parseErr := parseGoalNumber(numberText)
		if parseErr != nil || name == "" {
			logger.Warnf(ctx, "catalog import: skipped goal item %q (%q)", numberText, name)
			return true
		}
		// One upsert statement cannot touch the same id twice.
		if _, dup := seen[number]; dup {
			logger.Warnf(ctx, "catalog import: goal %d listed again as %q, keeping the first entry", number, name)
			return true
		}
		seen[number] = struct{}{}

		goal := &domain.Goal{ID: number, Name: name}
		if description := strings.TrimSpace(li.Find(goalDescriptionSelector).First().Text()); description != "" {
			goal.Description = description
		}

		href, ok := title.Attr("href")
		if ok && goal.Description == "" {
			eg.Go(func() error {
				ref, err := url.Parse(href)
				if err != nil {
					return fmt.Errorf("goal %d: bad link %q: %w", number, href, err)
				}

				description, err := s.fetchDescription(egCtx, base.ResolveReference(ref).String())
				if err != nil {
					return fmt.Errorf("fetchDescription, goal-%d: %w", number, err)
				}
				goal.Description = description

				goalsMx.Lock()
				defer goalsMx.Unlock()
				goals = append(goals, goal)
				return nil
			})
			return true
		}

		goalsMx.Lock()
		goals = append(goals, goal)
		goalsMx.Unlock()
		return true
	})

	if err = eg.Wait(); err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, constants.NewValidationError("no goals found at %s", listURL)
	}

	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })

	imported, err := s.store.UpsertGoals(ctx, goals)
	if err != nil {
		return nil, fmt.Errorf("UpsertGoals: %w", err)
	}

	logger.Infof(ctx, "catalog import: %d goals upserted from %s", imported, listURL)

	return &ImportResult{Imported: imported, Goals: goals}, nil
}

func parseGoalNumber(text string) (int64, error) {
	text = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(text)), "goal")
	text = strings.TrimSuffix(strings.TrimSpace(text), ".")
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("goal number %d out of range", n)
	}
	return n, nil
}

func (s *Service) fetchDescription(ctx context.Context, pageURL string) (string, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Find(goalDescriptionSelector).First().Text()), nil
}

// fetchDocument retries transport failures and non-200 answers a few times before giving up.
func (s *Service) fetchDocument(ctx context.Context, pageURL string) (doc *goquery.Document, err error) {
	var resp *http.Response
	err = backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
			if reqErr != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", reqErr))
			}

			var httpErr error
			resp, httpErr = s.httpClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("httpClient.Do: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close reader: %w", closeErr)
		}
	}()

	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	return doc, nil
}
