package docsync

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/docs/v1"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

// InsertSummary prepends the block to the document unless a block for
// the same call is already present. The call id line is the
// idempotency key, so a retried insert for the same call never yields
// a second copy. Returns whether a physical insert happened.
func (uc *UseCase) InsertSummary(ctx context.Context, docID string, block *model.SummaryBlock) (bool, error) {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to read document", goerr.V("doc_id", docID))
	}

	if strings.Contains(docText(doc), model.IdempotencyKey(block.CallID)) {
		logging.From(ctx).Info("summary already present, skipping insert",
			"doc_id", docID, "call_id", block.CallID)
		return false, nil
	}

	reqs := []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: 1},
			Text:     block.Render() + "\n",
		},
	}}
	if err := uc.docs.BatchUpdate(ctx, docID, reqs); err != nil {
		return false, goerr.Wrap(err, "failed to insert summary",
			goerr.V("doc_id", docID), goerr.V("call_id", block.CallID))
	}

	logging.From(ctx).Info("inserted summary", "doc_id", docID, "call_id", block.CallID)
	return true, nil
}
