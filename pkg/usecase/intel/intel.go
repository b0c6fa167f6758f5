// Package intel synthesizes an account brief from the full
// chronological summary text.
package intel

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/k-shimizu/callbrief/pkg/adapter"
	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

//go:embed prompt/synthesize.md
var synthesizePromptRaw string

var synthesizePromptTmpl = template.Must(template.New("synthesize").Parse(synthesizePromptRaw))

const synthesizeMaxTokens = 4000

type UseCase struct {
	llm        adapter.LLM
	vendorName string
	now        func() time.Time
}

type Option func(*UseCase)

func WithVendorName(name string) Option {
	return func(uc *UseCase) { uc.vendorName = name }
}

// WithNow overrides the clock used for the brief's last-updated date.
func WithNow(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

func New(llm adapter.LLM, opts ...Option) *UseCase {
	uc := &UseCase{llm: llm, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Synthesize produces an intelligence brief from the chronologically
// ordered summaries text. The model is instructed to answer with bare
// JSON, but an incidental code fence is tolerated. A response that
// still fails to parse is fatal and carries the raw payload: a
// guessed-at brief would corrupt the document section it feeds.
func (uc *UseCase) Synthesize(ctx context.Context, summariesText, account string) (*model.IntelligenceBrief, error) {
	numCalls := strings.Count(summariesText, model.BlockHeader)
	logging.From(ctx).Info("synthesizing intelligence", "account", account, "calls", numCalls)

	var buf bytes.Buffer
	err := synthesizePromptTmpl.Execute(&buf, map[string]any{
		"Account":    account,
		"Vendor":     uc.vendorName,
		"Date":       uc.now().Format("2006-01-02"),
		"TotalCalls": numCalls,
		"Summaries":  summariesText,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render synthesize prompt")
	}

	resp, err := uc.llm.Generate(ctx, buf.String(), synthesizeMaxTokens)
	if err != nil {
		return nil, goerr.Wrap(err, "synthesis request failed", goerr.V("account", account))
	}

	cleaned := cleanJSON(resp)

	var brief model.IntelligenceBrief
	if err := json.Unmarshal([]byte(cleaned), &brief); err != nil {
		return nil, goerr.Wrap(err, "failed to parse intelligence response",
			goerr.V("account", account), goerr.V("response", resp))
	}

	if err := brief.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid intelligence brief", goerr.V("account", account))
	}

	return &brief, nil
}

// cleanJSON strips anything before the first '{' and after the last
// '}', tolerating code fences and preambles around the JSON body.
func cleanJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
