package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/k-shimizu/callbrief/pkg/model"
)

func TestResultString(t *testing.T) {
	t.Run("no calls", func(t *testing.T) {
		r := model.Result{Status: model.StatusNoCalls, Account: "Acme"}
		gt.S(t, r.String()).Contains("No calls found for Acme")

		r.DocURL = "https://docs.google.com/document/d/abc/edit"
		gt.S(t, r.String()).Contains(r.DocURL)
	})

	t.Run("no new calls", func(t *testing.T) {
		r := model.Result{
			Status:     model.StatusNoNewCalls,
			Account:    "Acme",
			CallsFound: 3,
			DocURL:     "https://docs.google.com/document/d/abc/edit",
		}
		msg := r.String()
		gt.S(t, msg).Contains("No Updates Needed")
		gt.S(t, msg).Contains("All 3 calls already processed")
		gt.S(t, msg).Contains(r.DocURL)
	})

	t.Run("updated", func(t *testing.T) {
		r := model.Result{
			Status:     model.StatusUpdated,
			Account:    "Acme",
			CallsFound: 5,
			TotalCalls: 12,
			DocURL:     "https://docs.google.com/document/d/abc/edit",
		}
		msg := r.String()
		gt.S(t, msg).Contains("Calls Analyzed: 5 of 12 total")
		gt.S(t, msg).Contains(r.DocURL)
	})
}

func TestNewRunID(t *testing.T) {
	id := model.NewRunID("Acme Corp")
	gt.S(t, id).Contains("intelligence-acme-corp-")
	gt.NotEqual(t, id, model.NewRunID("Acme Corp"))
}

func TestDocIDFromURL(t *testing.T) {
	gt.Equal(t, model.DocIDFromURL("https://docs.google.com/document/d/abc123/edit"), "abc123")
	gt.Equal(t, model.DocIDFromURL("abc123"), "abc123")
}

func TestBriefValidate(t *testing.T) {
	brief := model.IntelligenceBrief{Account: "Acme"}
	gt.NoError(t, brief.Validate())

	brief.CallHistory = []model.CallHistoryEntry{{Type: "Discovery"}}
	err := brief.Validate()
	gt.Error(t, err)
	gt.S(t, strings.ToLower(err.Error())).Contains("date")

	brief.Account = ""
	gt.Error(t, brief.Validate())
}
