package docsync

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

// Concurrent inserts land in completion order, not call order, so the
// block span is captured non-greedily together with its header date.
var blockPattern = regexp.MustCompile(`(?s)(=== CALL SUMMARY: (\d{4}-\d{2}-\d{2}) - .+?===.*?===)`)

// ReadNormalized returns all summary blocks in the document rejoined
// in chronological order (oldest first). If no blocks parse, the raw
// document text is returned unchanged.
func (uc *UseCase) ReadNormalized(ctx context.Context, docID string) (string, error) {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read document", goerr.V("doc_id", docID))
	}

	fullText := docText(doc)

	matches := blockPattern.FindAllStringSubmatch(fullText, -1)
	if len(matches) == 0 {
		logging.From(ctx).Info("no summary blocks parsed, returning raw text",
			"doc_id", docID, "chars", len(fullText))
		return fullText, nil
	}

	type dated struct {
		date  string
		block string
	}
	blocks := make([]dated, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, dated{date: m[2], block: m[1]})
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].date < blocks[j].date
	})

	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		texts = append(texts, b.block)
	}

	logging.From(ctx).Info("sorted summary blocks chronologically",
		"doc_id", docID, "blocks", len(blocks))
	return strings.Join(texts, "\n"), nil
}
