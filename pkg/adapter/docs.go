package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// Docs is the document-store client. Get returns the full paragraph/run
// tree with offsets; BatchUpdate applies an ordered batch of positional
// edits. Offset bookkeeping across edits is entirely the caller's job.
type Docs interface {
	Get(ctx context.Context, docID string) (*docs.Document, error)
	BatchUpdate(ctx context.Context, docID string, reqs []*docs.Request) error
}

type docsClient struct {
	svc *docs.Service
}

// NewDocs creates a document-store client authenticated with a service
// account credentials file.
func NewDocs(ctx context.Context, credentialsFile string) (Docs, error) {
	svc, err := docs.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(docs.DocumentsScope),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create docs service")
	}

	return &docsClient{svc: svc}, nil
}

func (c *docsClient) Get(ctx context.Context, docID string) (*docs.Document, error) {
	doc, err := c.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("doc_id", docID))
	}
	return doc, nil
}

func (c *docsClient) BatchUpdate(ctx context.Context, docID string, reqs []*docs.Request) error {
	if len(reqs) == 0 {
		return nil
	}

	_, err := c.svc.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return goerr.Wrap(err, "failed to apply document batch",
			goerr.V("doc_id", docID), goerr.V("requests", len(reqs)))
	}

	return nil
}
