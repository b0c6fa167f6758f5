package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/k-shimizu/callbrief/pkg/model"
)

func TestFlexTimeShapes(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"numeric string", `"1704412800"`, "2024-01-05"},
		{"iso8601 zulu", `"2024-03-10T14:30:00Z"`, "2024-03-10"},
		{"iso8601 offset", `"2024-03-10T14:30:00+00:00"`, "2024-03-10"},
		{"iso8601 naive", `"2024-03-10T14:30:00"`, "2024-03-10"},
		{"raw number", `1704412800`, "2024-01-05"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var ft model.FlexTime
			gt.NoError(t, json.Unmarshal([]byte(tc.raw), &ft))
			gt.Equal(t, ft.Date(), tc.expected)
		})
	}
}

func TestFlexTimeInvalid(t *testing.T) {
	var ft model.FlexTime
	gt.Error(t, json.Unmarshal([]byte(`"not a date"`), &ft))
}

func TestCallRecordExternalParties(t *testing.T) {
	call := model.CallRecord{
		Parties: []model.Party{
			{Name: "Alice AE", EmailAddress: "alice@vendor.io"},
			{Name: "Bob", EmailAddress: "bob@acme.com"},
			{Name: "Carol", EmailAddress: "carol@acme.com"},
			{Name: "Ghost"},
		},
	}

	gt.A(t, call.ExternalParticipants("vendor.io")).
		Length(2).
		Has("Bob").
		Has("Carol")
	gt.A(t, call.ExternalDomains("vendor.io")).Length(1).Has("acme.com")
}

func TestTranscriptText(t *testing.T) {
	tr := model.CallTranscript{
		CallID: "123",
		Entries: []model.TranscriptEntry{
			{SpeakerID: "1", Sentences: []model.Sentence{{Text: "Hello"}, {Text: "world."}}},
			{SpeakerID: "2", Sentences: []model.Sentence{{Text: "Hi."}}},
		},
	}

	gt.Equal(t, tr.Text(), "Speaker 1: Hello world.\nSpeaker 2: Hi.")
}

func TestSummaryBlockRender(t *testing.T) {
	block := model.SummaryBlock{
		CallID:       "9001",
		Date:         "2024-01-05",
		Title:        "Acme <> Vendor Sync",
		Participants: []string{"Bob", "Carol"},
		DurationSec:  2700,
		Body:         "**Call Type:** Check-in",
	}

	expected := `=== CALL SUMMARY: 2024-01-05 - Acme <> Vendor Sync ===
Call ID: 9001
Participants: Bob, Carol
Duration: 45 minutes

**Call Type:** Check-in

===
`
	gt.Equal(t, block.Render(), expected)
}

func TestSummaryBlockRenderNoParticipants(t *testing.T) {
	block := model.SummaryBlock{CallID: "1", Date: "2024-01-05", Title: "T"}
	gt.S(t, block.Render()).Contains("Participants: No external participants")
}
