// Package workflow orchestrates one account-intelligence run on the
// durable execution engine. Discovery and document lookup are
// sequential; per-call summarization and insertion each fan out into
// one activity per call id and join before the next step.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/usecase/discovery"
)

const DefaultMaxCalls = 30

// Input is the workflow argument.
type Input struct {
	Account  string `json:"account"`
	MaxCalls int    `json:"max_calls"`
}

// AccountIntelligence discovers an account's calls, summarizes the
// new ones into the account document, and rewrites the intelligence
// section at its top. Re-running it with no new calls performs zero
// document mutations.
func AccountIntelligence(ctx workflow.Context, input Input) (*model.Result, error) {
	logger := workflow.GetLogger(ctx)

	maxCalls := input.MaxCalls
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
			InitialInterval: time.Second,
			MaximumInterval: 10 * time.Second,
		},
	})

	var a *Activities

	logger.Info("discovering calls", "account", input.Account, "max_calls", maxCalls)
	var finding discovery.Finding
	if err := workflow.ExecuteActivity(ctx, a.DiscoverCalls, input.Account, maxCalls).Get(ctx, &finding); err != nil {
		return nil, err
	}

	if len(finding.CallIDs) == 0 {
		logger.Info("no calls found", "account", input.Account)

		// Best effort: an existing document is still worth pointing at.
		var docURL string
		if err := workflow.ExecuteActivity(ctx, a.FindDoc, input.Account).Get(ctx, &docURL); err != nil {
			logger.Warn("document lookup failed", "account", input.Account, "error", err)
		}
		return &model.Result{
			Status:  model.StatusNoCalls,
			Account: input.Account,
			DocURL:  docURL,
		}, nil
	}

	account := finding.DisplayName
	if account == "" {
		account = input.Account
	}

	logger.Info("locating document", "account", account,
		"calls", len(finding.CallIDs), "total", finding.Total)
	var docURL string
	if err := workflow.ExecuteActivity(ctx, a.LocateDoc, account).Get(ctx, &docURL); err != nil {
		return nil, err
	}

	logger.Info("summarizing calls", "count", len(finding.CallIDs))
	summarizeFutures := make([]workflow.Future, 0, len(finding.CallIDs))
	for _, callID := range finding.CallIDs {
		summarizeFutures = append(summarizeFutures, workflow.ExecuteActivity(ctx, a.SummarizeCall, callID))
	}
	blocks := make([]*model.SummaryBlock, 0, len(summarizeFutures))
	for _, f := range summarizeFutures {
		var block model.SummaryBlock
		if err := f.Get(ctx, &block); err != nil {
			return nil, err
		}
		blocks = append(blocks, &block)
	}

	logger.Info("inserting summaries", "count", len(blocks))
	insertFutures := make([]workflow.Future, 0, len(blocks))
	for _, block := range blocks {
		insertFutures = append(insertFutures, workflow.ExecuteActivity(ctx, a.InsertSummary, docURL, block))
	}
	newSummaries := 0
	for _, f := range insertFutures {
		var inserted bool
		if err := f.Get(ctx, &inserted); err != nil {
			return nil, err
		}
		if inserted {
			newSummaries++
		}
	}

	if newSummaries == 0 {
		logger.Info("all calls already in document, skipping synthesis", "account", account)
		return &model.Result{
			Status:     model.StatusNoNewCalls,
			Account:    account,
			DocURL:     docURL,
			CallsFound: len(finding.CallIDs),
			TotalCalls: finding.Total,
		}, nil
	}

	logger.Info("synthesizing intelligence", "account", account, "new_summaries", newSummaries)
	var summariesText string
	if err := workflow.ExecuteActivity(ctx, a.ReadSummaries, docURL).Get(ctx, &summariesText); err != nil {
		return nil, err
	}

	var brief model.IntelligenceBrief
	if err := workflow.ExecuteActivity(ctx, a.SynthesizeIntelligence, summariesText, account).Get(ctx, &brief); err != nil {
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, a.WriteIntelligence, docURL, &brief).Get(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info("intelligence updated", "account", account, "doc_url", docURL)
	return &model.Result{
		Status:         model.StatusUpdated,
		Account:        account,
		DocURL:         docURL,
		CallsFound:     len(finding.CallIDs),
		TotalCalls:     finding.Total,
		NewSummaries:   newSummaries,
		HistoryEntries: len(brief.CallHistory),
	}, nil
}
