package summary

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/k-shimizu/callbrief/pkg/adapter"
	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

//go:embed prompt/summarize.md
var summarizePromptRaw string

var summarizePromptTmpl = template.Must(template.New("summarize").Parse(summarizePromptRaw))

const (
	defaultTargetWords = 300
	summaryMaxTokens   = 1000
)

// UseCase produces one formatted summary block per call.
type UseCase struct {
	gong adapter.Gong
	llm  adapter.LLM

	vendorName   string
	vendorDomain string
	targetWords  int
}

type Option func(*UseCase)

func WithVendor(name, domain string) Option {
	return func(uc *UseCase) {
		uc.vendorName = name
		uc.vendorDomain = domain
	}
}

func WithTargetWords(n int) Option {
	return func(uc *UseCase) { uc.targetWords = n }
}

func New(gong adapter.Gong, llm adapter.LLM, opts ...Option) *UseCase {
	uc := &UseCase{
		gong:        gong,
		llm:         llm,
		targetWords: defaultTargetWords,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Summarize fetches the call's metadata and transcript and delegates
// to the LLM for a role-constrained summary. The metadata fetch comes
// first: if it fails, neither the transcript fetch nor the costly
// completion call is attempted.
func (uc *UseCase) Summarize(ctx context.Context, callID string) (*model.SummaryBlock, error) {
	logger := logging.From(ctx)

	call, err := uc.gong.GetCall(ctx, callID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch call metadata", goerr.V("call_id", callID))
	}

	transcript, err := uc.gong.Transcript(ctx, callID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch transcript", goerr.V("call_id", callID))
	}

	title := call.Meta.Title
	if title == "" {
		title = "Untitled"
	}
	date := call.Meta.Scheduled.Date()
	if date == "" {
		date = call.Meta.Started.Date()
	}

	logger.Info("summarizing call", "call_id", callID, "title", title, "date", date)

	var buf bytes.Buffer
	err = summarizePromptTmpl.Execute(&buf, map[string]any{
		"Vendor":      uc.vendorName,
		"Date":        date,
		"Title":       title,
		"Duration":    fmt.Sprintf("%d minutes", call.Meta.Duration/60),
		"TargetWords": uc.targetWords,
		"Transcript":  transcript.Text(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render summarize prompt")
	}

	body, err := uc.llm.Generate(ctx, buf.String(), summaryMaxTokens)
	if err != nil {
		return nil, goerr.Wrap(err, "summarization request failed", goerr.V("call_id", callID))
	}

	return &model.SummaryBlock{
		CallID:       callID,
		Date:         date,
		Title:        title,
		Participants: call.ExternalParticipants(uc.vendorDomain),
		DurationSec:  call.Meta.Duration,
		Body:         body,
	}, nil
}
