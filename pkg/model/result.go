package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Status string

const (
	// StatusNoCalls means discovery found no calls for the account.
	StatusNoCalls Status = "no_calls"
	// StatusNoNewCalls means every discovered call was already in the
	// document, so no mutation was performed.
	StatusNoNewCalls Status = "no_new_calls"
	// StatusUpdated means new summaries were inserted and the
	// intelligence section was rewritten.
	StatusUpdated Status = "updated"
)

// Result is the user-visible outcome of one intelligence run.
type Result struct {
	Status         Status `json:"status"`
	Account        string `json:"account"`
	DocURL         string `json:"doc_url"`
	CallsFound     int    `json:"calls_found"`
	TotalCalls     int    `json:"total_calls"`
	NewSummaries   int    `json:"new_summaries"`
	HistoryEntries int    `json:"history_entries"`
}

// String renders the short natural-language status. Every outcome
// carries the document location when one is known, so the caller can
// always navigate to the artifact.
func (r *Result) String() string {
	switch r.Status {
	case StatusNoCalls:
		msg := fmt.Sprintf("No calls found for %s.", r.Account)
		if r.DocURL != "" {
			msg += fmt.Sprintf("\nExisting document: %s", r.DocURL)
		}
		return msg

	case StatusNoNewCalls:
		return fmt.Sprintf(`Account Intelligence: No Updates Needed

Account: %s
All %d calls already processed. No new intelligence to generate.
Document: %s`, r.Account, r.CallsFound, r.DocURL)

	default:
		return fmt.Sprintf(`Account Intelligence Complete

Account: %s
Calls Analyzed: %d of %d total
New Summaries: %d
Calls in History: %d
Document: %s`, r.Account, r.CallsFound, r.TotalCalls, r.NewSummaries, r.HistoryEntries, r.DocURL)
	}
}

// NewRunID builds a unique, human-scannable workflow ID for an account.
func NewRunID(account string) string {
	slug := strings.ReplaceAll(strings.ToLower(account), " ", "-")
	return fmt.Sprintf("intelligence-%s-%s", slug, uuid.NewString()[:8])
}

// DocIDFromURL extracts the document ID from a document URL of the form
// .../d/<id>/edit.
func DocIDFromURL(url string) string {
	_, rest, ok := strings.Cut(url, "/d/")
	if !ok {
		return url
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}
