package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/k-shimizu/callbrief/pkg/model"
)

const defaultGongBaseURL = "https://api.gong.io"

// SearchQuery selects calls either by time range or by explicit IDs.
// Cursor continues a paginated search within the same filter.
type SearchQuery struct {
	From           time.Time
	To             time.Time
	CallIDs        []string
	PrimaryUserIDs []string
	Cursor         string
}

// CallPage is one page of search results. A non-empty Cursor means more
// pages remain for the same query.
type CallPage struct {
	Calls  []model.CallRecord
	Cursor string
}

// Gong is the recording-platform client.
type Gong interface {
	SearchCalls(ctx context.Context, q SearchQuery) (*CallPage, error)
	GetCall(ctx context.Context, callID string) (*model.CallRecord, error)
	Transcript(ctx context.Context, callID string) (*model.CallTranscript, error)
}

// GongClient implements Gong against the platform's REST API using
// basic authentication.
type GongClient struct {
	baseURL    string
	httpClient *http.Client
	accessKey  string
	secretKey  string
}

type GongOption func(*GongClient)

func WithGongBaseURL(url string) GongOption {
	return func(g *GongClient) {
		g.baseURL = url
	}
}

func WithGongHTTPClient(c *http.Client) GongOption {
	return func(g *GongClient) {
		g.httpClient = c
	}
}

func NewGong(accessKey, secretKey string, opts ...GongOption) *GongClient {
	g := &GongClient{
		baseURL:    defaultGongBaseURL,
		httpClient: http.DefaultClient,
		accessKey:  accessKey,
		secretKey:  secretKey,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type callFilter struct {
	FromDateTime   string   `json:"fromDateTime,omitempty"`
	ToDateTime     string   `json:"toDateTime,omitempty"`
	CallIDs        []string `json:"callIds,omitempty"`
	PrimaryUserIDs []string `json:"primaryUserIds,omitempty"`
}

type extensiveRequest struct {
	Filter          callFilter      `json:"filter"`
	ContentSelector contentSelector `json:"contentSelector"`
	Cursor          string          `json:"cursor,omitempty"`
}

type contentSelector struct {
	Context       string        `json:"context,omitempty"`
	ExposedFields exposedFields `json:"exposedFields"`
}

type exposedFields struct {
	Parties bool `json:"parties"`
}

type extensiveResponse struct {
	Calls   []model.CallRecord `json:"calls"`
	Records struct {
		Cursor string `json:"cursor"`
	} `json:"records"`
}

type transcriptRequest struct {
	Filter callFilter `json:"filter"`
}

type transcriptResponse struct {
	CallTranscripts []model.CallTranscript `json:"callTranscripts"`
}

func (g *GongClient) SearchCalls(ctx context.Context, q SearchQuery) (*CallPage, error) {
	body := extensiveRequest{
		Filter: callFilter{
			CallIDs:        q.CallIDs,
			PrimaryUserIDs: q.PrimaryUserIDs,
		},
		ContentSelector: contentSelector{
			Context:       "Extended",
			ExposedFields: exposedFields{Parties: true},
		},
		Cursor: q.Cursor,
	}
	if !q.From.IsZero() {
		body.Filter.FromDateTime = q.From.UTC().Format(time.RFC3339)
	}
	if !q.To.IsZero() {
		body.Filter.ToDateTime = q.To.UTC().Format(time.RFC3339)
	}

	var resp extensiveResponse
	if err := g.post(ctx, "/v2/calls/extensive", body, &resp); err != nil {
		return nil, err
	}

	return &CallPage{Calls: resp.Calls, Cursor: resp.Records.Cursor}, nil
}

func (g *GongClient) GetCall(ctx context.Context, callID string) (*model.CallRecord, error) {
	page, err := g.SearchCalls(ctx, SearchQuery{CallIDs: []string{callID}})
	if err != nil {
		return nil, err
	}
	if len(page.Calls) == 0 {
		return nil, goerr.New("call not found", goerr.V("call_id", callID))
	}
	return &page.Calls[0], nil
}

func (g *GongClient) Transcript(ctx context.Context, callID string) (*model.CallTranscript, error) {
	body := transcriptRequest{Filter: callFilter{CallIDs: []string{callID}}}

	var resp transcriptResponse
	if err := g.post(ctx, "/v2/calls/transcript", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.CallTranscripts) == 0 {
		return nil, goerr.New("transcript not found", goerr.V("call_id", callID))
	}

	return &resp.CallTranscripts[0], nil
}

func (g *GongClient) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.SetBasicAuth(g.accessKey, g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	defer resp.Body.Close()

	// Any non-OK status is fatal for the whole operation: a partial
	// account history is worse than a clear failure.
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return goerr.New("recording platform returned non-OK status",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
	}

	return nil
}
