package docsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/docs/v1"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

const (
	startMarker = "ACCOUNT INTELLIGENCE"
	endMarker   = "END ACCOUNT INTELLIGENCE"
)

type spanStyle int

const (
	styleTitle spanStyle = iota
	styleHeader
	styleBold
)

type span struct {
	start, end int64
}

type styledSpan struct {
	span
	style spanStyle
}

// sectionBuilder accumulates the section text while tracking, in
// UTF-16 units, the ranges that need styling or bullets once the text
// is in the document.
type sectionBuilder struct {
	sb      strings.Builder
	offset  int64
	styles  []styledSpan
	bullets []span
}

func (b *sectionBuilder) raw(s string) {
	b.sb.WriteString(s)
	b.offset += utf16Len(s)
}

// styledLine appends s+"\n" and records a style span over s only.
func (b *sectionBuilder) styledLine(s string, style spanStyle) {
	start := b.offset
	b.raw(s)
	b.styles = append(b.styles, styledSpan{span{start, b.offset}, style})
	b.raw("\n")
}

// labeledLine appends "label value\n" with the label bolded.
func (b *sectionBuilder) labeledLine(label, value string) {
	start := b.offset
	b.raw(label)
	b.styles = append(b.styles, styledSpan{span{start, b.offset}, styleBold})
	b.raw(" " + value + "\n")
}

// bulletLine appends s+"\n" and records a bullet span over s only.
func (b *sectionBuilder) bulletLine(s string) {
	start := b.offset
	b.raw(s)
	b.bullets = append(b.bullets, span{start, b.offset})
	b.raw("\n")
}

func (b *sectionBuilder) bulletList(items []string) {
	for _, item := range items {
		b.bulletLine(item)
	}
}

// bulletListOrNone is for sections that must never render empty.
func (b *sectionBuilder) bulletListOrNone(items []string) {
	if len(items) == 0 {
		b.bulletLine("None identified")
		return
	}
	b.bulletList(items)
}

// renderSection builds the intelligence section text between its
// start and end markers, with every style and bullet range tracked
// against the section's own origin.
func renderSection(brief *model.IntelligenceBrief) *sectionBuilder {
	separator := strings.Repeat("=", 60)
	divider := strings.Repeat("-", 60) + "\n"

	b := &sectionBuilder{}

	b.raw(separator + "\n")
	b.styledLine(startMarker, styleTitle)
	b.raw(separator + "\n")

	b.labeledLine("Account:", brief.Account)
	b.labeledLine("Last Updated:", brief.LastUpdated)
	b.labeledLine("Total Calls:", fmt.Sprintf("%d", brief.TotalCalls))
	b.raw("\n")
	b.raw(divider + "\n")

	b.styledLine("QUICK CONTEXT", styleHeader)
	b.raw("\n")
	b.bulletList(brief.QuickContext)
	b.raw("\n")

	b.styledLine("BLOCKING PROGRESS", styleHeader)
	b.raw("\n")
	b.bulletListOrNone(brief.BlockingProgress)
	b.raw("\n")

	b.styledLine("NEXT ACTIONS", styleHeader)
	b.raw("\n")
	b.bulletList(brief.NextActions)
	b.raw("\n")

	b.styledLine("RISKS", styleHeader)
	b.raw("\n")
	b.bulletListOrNone(brief.Risks)
	b.raw("\n")

	b.raw(divider + "\n")
	b.styledLine("CALL HISTORY (newest first)", styleHeader)
	b.raw("\n")
	for _, call := range brief.CallHistory {
		b.bulletLine(fmt.Sprintf("%s - %s: %s", call.Date, call.Type, call.OneSentence))
	}
	b.raw("\n")

	b.raw(separator + "\n")
	b.raw(endMarker + "\n")
	b.raw(separator + "\n")
	b.raw("\n\n")

	return b
}

// findSection locates the first paragraph containing the start marker
// and the first subsequent paragraph containing the end marker,
// returning the document range spanning both. A start marker with no
// end marker is a corrupted section and is reported as an error
// rather than guessing a truncation boundary.
func findSection(doc *docs.Document) (start, end int64, found bool, err error) {
	start, end = -1, -1
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun == nil {
				continue
			}
			text := pe.TextRun.Content
			if start < 0 && strings.Contains(text, startMarker) {
				start = elem.StartIndex
			} else if start >= 0 && strings.Contains(text, endMarker) {
				end = elem.EndIndex
				return start, end, true, nil
			}
		}
	}
	if start >= 0 {
		return 0, 0, false, goerr.New("intelligence section start marker found without end marker",
			goerr.V("start_index", start))
	}
	return 0, 0, false, nil
}

// WriteIntelligence replaces the intelligence section at the top of
// the document with a freshly rendered one. The new section is
// inserted at index 1 first; the old section, if any, is deleted
// afterwards at its offsets shifted by the inserted length. Styling
// and bullets are applied between the two, and the markdown
// formatting pass runs last over the whole document.
func (uc *UseCase) WriteIntelligence(ctx context.Context, docID string, brief *model.IntelligenceBrief) error {
	logger := logging.From(ctx)

	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return goerr.Wrap(err, "failed to read document", goerr.V("doc_id", docID))
	}

	oldStart, oldEnd, oldExists, err := findSection(doc)
	if err != nil {
		return goerr.Wrap(err, "cannot replace intelligence section", goerr.V("doc_id", docID))
	}
	if oldExists {
		logger.Info("replacing existing intelligence section",
			"doc_id", docID, "start", oldStart, "end", oldEnd)
	} else {
		logger.Info("no existing intelligence section, prepending", "doc_id", docID)
	}

	section := renderSection(brief)
	fullText := section.sb.String()
	textLen := utf16Len(fullText)

	const insertIndex = int64(1)

	insertReqs := []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: insertIndex},
			Text:     fullText,
		},
	}}
	if err := uc.docs.BatchUpdate(ctx, docID, insertReqs); err != nil {
		return goerr.Wrap(err, "failed to insert intelligence section", goerr.V("doc_id", docID))
	}

	var styleReqs []*docs.Request
	for _, s := range section.styles {
		style := &docs.TextStyle{Bold: true}
		fields := "bold"
		switch s.style {
		case styleTitle:
			style.FontSize = &docs.Dimension{Magnitude: 16, Unit: "PT"}
			fields = "bold,fontSize"
		case styleHeader:
			style.FontSize = &docs.Dimension{Magnitude: 12, Unit: "PT"}
			fields = "bold,fontSize"
		}
		styleReqs = append(styleReqs, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range: &docs.Range{
					StartIndex: insertIndex + s.start,
					EndIndex:   insertIndex + s.end,
				},
				TextStyle: style,
				Fields:    fields,
			},
		})
	}
	if err := uc.docs.BatchUpdate(ctx, docID, styleReqs); err != nil {
		return goerr.Wrap(err, "failed to style intelligence section", goerr.V("doc_id", docID))
	}

	var bulletReqs []*docs.Request
	for _, b := range section.bullets {
		bulletReqs = append(bulletReqs, &docs.Request{
			CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
				Range: &docs.Range{
					StartIndex: insertIndex + b.start,
					EndIndex:   insertIndex + b.end,
				},
				BulletPreset: "BULLET_DISC_CIRCLE_SQUARE",
			},
		})
	}
	if err := uc.docs.BatchUpdate(ctx, docID, bulletReqs); err != nil {
		return goerr.Wrap(err, "failed to bullet intelligence section", goerr.V("doc_id", docID))
	}

	if oldExists {
		// The insert at index 1 shifted the old section forward by
		// exactly the inserted length.
		deleteReqs := []*docs.Request{{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{
					StartIndex: oldStart + textLen,
					EndIndex:   oldEnd + textLen,
				},
			},
		}}
		if err := uc.docs.BatchUpdate(ctx, docID, deleteReqs); err != nil {
			return goerr.Wrap(err, "failed to delete old intelligence section", goerr.V("doc_id", docID))
		}
	}

	return uc.ApplyInlineFormatting(ctx, docID)
}
