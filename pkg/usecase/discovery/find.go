package discovery

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/k-shimizu/callbrief/pkg/adapter"
	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

// Finding is the result of one discovery run. Total records the match
// count before truncation so callers can tell when results were
// clipped to maxCalls.
type Finding struct {
	CallIDs     []string `json:"call_ids"`
	Total       int      `json:"total"`
	DisplayName string   `json:"display_name"`
}

// Find returns the most recent calls classified as belonging to the
// company, newest first, truncated to maxCalls.
func (uc *UseCase) Find(ctx context.Context, company string, maxCalls int) (*Finding, error) {
	return uc.find(ctx, company, maxCalls, uc.classifyWindow)
}

// FindByTitle is the diagnostic variant: it matches calls whose
// normalized title contains the normalized company name, with no LLM
// involved. Useful for exercising the windowing and pagination logic
// in isolation.
func (uc *UseCase) FindByTitle(ctx context.Context, company string, maxCalls int) (*Finding, error) {
	key := model.NormalizeCompany(company)
	match := func(_ context.Context, calls []model.CallRecord, _ string) ([]model.CallRecord, error) {
		var matched []model.CallRecord
		for _, c := range calls {
			if strings.Contains(model.NormalizeCompany(c.Meta.Title), key) {
				matched = append(matched, c)
			}
		}
		return matched, nil
	}
	return uc.find(ctx, company, maxCalls, match)
}

type windowMatcher func(ctx context.Context, calls []model.CallRecord, company string) ([]model.CallRecord, error)

func (uc *UseCase) find(ctx context.Context, company string, maxCalls int, match windowMatcher) (*Finding, error) {
	logger := logging.From(ctx)
	now := uc.now()
	windowSpan := time.Duration(uc.windowDays) * 24 * time.Hour

	var matches []model.CallRecord
	emptyWindows := 0

	for i := 0; i < uc.maxWindows; i++ {
		end := now.Add(-time.Duration(i) * windowSpan)
		start := end.Add(-windowSpan)

		calls, err := uc.drainWindow(ctx, start, end)
		if err != nil {
			return nil, err
		}

		matched, err := match(ctx, calls, company)
		if err != nil {
			return nil, err
		}
		matches = append(matches, matched...)

		logger.Info("scanned window",
			"window", i+1,
			"from", start.Format("2006-01-02"),
			"to", end.Format("2006-01-02"),
			"calls", len(calls),
			"matches", len(matched))

		if len(matched) == 0 {
			emptyWindows++
			// A long silent stretch means the account is dormant or the
			// name never matches; stop burning API calls either way.
			if emptyWindows >= uc.maxEmptyWindows {
				logger.Info("stopping after consecutive empty windows",
					"empty_windows", emptyWindows, "matches", len(matches))
				break
			}
		} else {
			emptyWindows = 0
		}

		if len(matches) >= maxCalls {
			logger.Info("reached requested call count, stopping early",
				"matches", len(matches), "max_calls", maxCalls)
			break
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].SortTime().After(matches[b].SortTime())
	})

	total := len(matches)
	if len(matches) > maxCalls {
		matches = matches[:maxCalls]
	}

	ids := make([]string, 0, len(matches))
	for _, c := range matches {
		ids = append(ids, c.Meta.ID)
	}

	return &Finding{CallIDs: ids, Total: total, DisplayName: company}, nil
}

// drainWindow follows the search cursor until the window is exhausted.
// There is deliberately no count limit here: the full window must be
// fetched regardless of match density.
func (uc *UseCase) drainWindow(ctx context.Context, start, end time.Time) ([]model.CallRecord, error) {
	var calls []model.CallRecord
	cursor := ""

	for {
		page, err := uc.gong.SearchCalls(ctx, adapter.SearchQuery{
			From:           start,
			To:             end,
			PrimaryUserIDs: uc.primaryUserIDs,
			Cursor:         cursor,
		})
		if err != nil {
			return nil, err
		}

		calls = append(calls, page.Calls...)
		if page.Cursor == "" {
			return calls, nil
		}
		cursor = page.Cursor
	}
}
