// Package docsync implements the shared-document protocol: idempotent
// block inserts, chronological normalization, intelligence-section
// replacement, and the markdown-to-rich-text formatting pass.
//
// The document store addresses text in UTF-16 code units and applies
// every request in a batch against the pre-batch offsets. All offset
// arithmetic in this package is therefore done in UTF-16 units, and
// every operation re-reads the document before mutating it.
package docsync

import (
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/k-shimizu/callbrief/pkg/adapter"
)

type UseCase struct {
	docs adapter.Docs
}

func New(docs adapter.Docs) *UseCase {
	return &UseCase{docs: docs}
}

// docText concatenates every text run in document order. Runs must be
// joined before searching: a marker and its value may land in separate
// runs after manual edits.
func docText(doc *docs.Document) string {
	var sb strings.Builder
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun == nil {
				continue
			}
			sb.WriteString(pe.TextRun.Content)
		}
	}
	return sb.String()
}
