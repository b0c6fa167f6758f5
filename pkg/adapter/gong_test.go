package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/k-shimizu/callbrief/pkg/adapter"
)

func TestSearchCallsPagination(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		gt.Equal(t, ok, true)
		gt.Equal(t, user, "key")
		gt.Equal(t, pass, "secret")
		gt.Equal(t, r.URL.Path, "/v2/calls/extensive")

		var body map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)

		if len(bodies) == 1 {
			_, _ = w.Write([]byte(`{
				"calls": [{"metaData": {"id": "1", "title": "First", "scheduled": "2024-03-10T10:00:00Z", "duration": 1800}}],
				"records": {"cursor": "next-page"}
			}`))
			return
		}
		gt.Equal(t, body["cursor"], "next-page")
		_, _ = w.Write([]byte(`{
			"calls": [{"metaData": {"id": "2", "title": "Second", "scheduled": "1704412800"}}],
			"records": {}
		}`))
	}))
	defer srv.Close()

	client := adapter.NewGong("key", "secret", adapter.WithGongBaseURL(srv.URL))

	q := adapter.SearchQuery{
		From:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		PrimaryUserIDs: []string{"u1"},
	}
	page, err := client.SearchCalls(context.Background(), q)
	gt.NoError(t, err)
	gt.A(t, page.Calls).Length(1)
	gt.Equal(t, page.Calls[0].Meta.ID, "1")
	gt.Equal(t, page.Cursor, "next-page")

	filter := bodies[0]["filter"].(map[string]any)
	gt.Equal(t, filter["fromDateTime"], "2024-03-01T00:00:00Z")
	gt.Equal(t, filter["toDateTime"], "2024-03-31T00:00:00Z")

	q.Cursor = page.Cursor
	page, err = client.SearchCalls(context.Background(), q)
	gt.NoError(t, err)
	gt.Equal(t, page.Calls[0].Meta.ID, "2")
	gt.Equal(t, page.Calls[0].Meta.Scheduled.Date(), "2024-01-05")
	gt.Equal(t, page.Cursor, "")
}

func TestSearchCallsNonOKStatusIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := adapter.NewGong("key", "secret", adapter.WithGongBaseURL(srv.URL))

	_, err := client.SearchCalls(context.Background(), adapter.SearchQuery{})
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("non-OK status")
}

func TestGetCallNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"calls": [], "records": {}}`))
	}))
	defer srv.Close()

	client := adapter.NewGong("key", "secret", adapter.WithGongBaseURL(srv.URL))

	_, err := client.GetCall(context.Background(), "missing")
	gt.Error(t, err)
}

func TestTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Path, "/v2/calls/transcript")

		var body map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		filter := body["filter"].(map[string]any)
		ids := filter["callIds"].([]any)
		gt.A(t, ids).Length(1)

		_, _ = w.Write([]byte(`{
			"callTranscripts": [{
				"callId": "42",
				"transcript": [
					{"speakerId": "1", "sentences": [{"text": "Hello"}, {"text": "there."}]}
				]
			}]
		}`))
	}))
	defer srv.Close()

	client := adapter.NewGong("key", "secret", adapter.WithGongBaseURL(srv.URL))

	tr, err := client.Transcript(context.Background(), "42")
	gt.NoError(t, err)
	gt.Equal(t, tr.CallID, "42")
	gt.Equal(t, tr.Text(), "Speaker 1: Hello there.")
}
