package discovery

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

//go:embed prompt/classify.md
var classifyPromptRaw string

var classifyPromptTmpl = template.Must(template.New("classify").Parse(classifyPromptRaw))

const classifyMaxTokens = 100

// classifyWindow asks the LLM which of the window's calls belong to
// the target customer, matching on title and participant domains.
func (uc *UseCase) classifyWindow(ctx context.Context, calls []model.CallRecord, company string) ([]model.CallRecord, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	lines := make([]string, 0, len(calls))
	for i, call := range calls {
		title := call.Meta.Title
		if title == "" {
			title = "Unknown"
		}
		line := fmt.Sprintf("%d. %s", i, title)
		if domains := call.ExternalDomains(uc.vendorDomain); len(domains) > 0 {
			line += " | Participants from: " + strings.Join(domains, ", ")
		}
		lines = append(lines, line)
	}

	var buf bytes.Buffer
	err := classifyPromptTmpl.Execute(&buf, map[string]any{
		"Company": company,
		"Calls":   strings.Join(lines, "\n"),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render classify prompt")
	}

	resp, err := uc.llm.Generate(ctx, buf.String(), classifyMaxTokens)
	if err != nil {
		return nil, goerr.Wrap(err, "classification request failed")
	}

	indices, ok := parseIndexList(resp)
	if !ok {
		// Unparseable verdict: policy decides whether the window is
		// accepted wholesale or discarded.
		logging.From(ctx).Warn("unparseable classification response",
			"response", resp, "fallback", uc.fallback)
		if uc.fallback == FailOpen {
			return calls, nil
		}
		return nil, nil
	}

	var matched []model.CallRecord
	for _, idx := range indices {
		if idx >= 0 && idx < len(calls) {
			matched = append(matched, calls[idx])
		}
	}
	return matched, nil
}

// parseIndexList parses a comma-separated index list. The literal NONE
// (or an empty response) is a valid "no matches" verdict; anything that
// fails to parse as integers reports ok=false.
func parseIndexList(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NONE") {
		return nil, true
	}

	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		indices = append(indices, n)
	}
	return indices, true
}
