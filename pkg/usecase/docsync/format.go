package docsync

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/docs/v1"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// ApplyInlineFormatting converts markdown leftovers in the document
// to native rich text: "**text**" spans become bold, "- " line starts
// become native bullets, and summary block headers are bolded. The
// style and bullet batches never change length; the marker deletions
// do, so they are collected across the whole document and applied as
// one batch sorted by start offset descending. Highest offsets are
// deleted first, which keeps every remaining delete range valid. Once
// no markup remains, a second invocation finds nothing to do.
func (uc *UseCase) ApplyInlineFormatting(ctx context.Context, docID string) error {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return goerr.Wrap(err, "failed to read document", goerr.V("doc_id", docID))
	}

	var boldReqs []*docs.Request
	var bulletReqs []*docs.Request
	var deletes []span

	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for i, pe := range elem.Paragraph.Elements {
			if pe.TextRun == nil {
				continue
			}
			text := pe.TextRun.Content
			runStart := pe.StartIndex

			for _, m := range boldPattern.FindAllStringSubmatchIndex(text, -1) {
				matchStart := runStart + utf16Offset(text, m[0])
				matchEnd := runStart + utf16Offset(text, m[1])

				boldReqs = append(boldReqs, &docs.Request{
					UpdateTextStyle: &docs.UpdateTextStyleRequest{
						Range: &docs.Range{
							StartIndex: matchStart + 2,
							EndIndex:   matchEnd - 2,
						},
						TextStyle: &docs.TextStyle{Bold: true},
						Fields:    "bold",
					},
				})
				deletes = append(deletes,
					span{matchEnd - 2, matchEnd},
					span{matchStart, matchStart + 2},
				)
			}

			if strings.HasPrefix(text, model.BlockHeader) {
				boldReqs = append(boldReqs, &docs.Request{
					UpdateTextStyle: &docs.UpdateTextStyleRequest{
						Range: &docs.Range{
							StartIndex: runStart,
							EndIndex:   runStart + utf16Len(strings.TrimRight(text, "\n")),
						},
						TextStyle: &docs.TextStyle{Bold: true},
						Fields:    "bold",
					},
				})
			}

			if i == 0 && strings.HasPrefix(text, "- ") {
				bulletReqs = append(bulletReqs, &docs.Request{
					CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
						Range: &docs.Range{
							StartIndex: elem.StartIndex,
							EndIndex:   elem.EndIndex,
						},
						BulletPreset: "BULLET_DISC_CIRCLE_SQUARE",
					},
				})
				deletes = append(deletes, span{runStart, runStart + 2})
			}
		}
	}

	if err := uc.docs.BatchUpdate(ctx, docID, boldReqs); err != nil {
		return goerr.Wrap(err, "failed to apply bold formatting", goerr.V("doc_id", docID))
	}
	if err := uc.docs.BatchUpdate(ctx, docID, bulletReqs); err != nil {
		return goerr.Wrap(err, "failed to apply bullet formatting", goerr.V("doc_id", docID))
	}

	// Deletes change length; applying them highest-first keeps the
	// lower, still-pending ranges valid.
	sort.Slice(deletes, func(i, j int) bool { return deletes[i].start > deletes[j].start })

	var deleteReqs []*docs.Request
	for _, d := range deletes {
		deleteReqs = append(deleteReqs, &docs.Request{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{StartIndex: d.start, EndIndex: d.end},
			},
		})
	}
	if err := uc.docs.BatchUpdate(ctx, docID, deleteReqs); err != nil {
		return goerr.Wrap(err, "failed to remove markup markers", goerr.V("doc_id", docID))
	}

	logging.From(ctx).Info("applied inline formatting",
		"doc_id", docID, "bold", len(boldReqs), "bullets", len(bulletReqs), "deletes", len(deleteReqs))
	return nil
}
