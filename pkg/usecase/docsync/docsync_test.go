package docsync_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/api/docs/v1"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/usecase/docsync"
)

// fakeDocs is an in-memory document store. Content is held in UTF-16
// code units so every index in a request is interpreted exactly the
// way the real store interprets it, and requests within a batch are
// applied sequentially, so a wrongly ordered delete batch corrupts
// later ranges just like it would in production.
type fakeDocs struct {
	content []uint16

	// mutations counts applied text-changing requests.
	mutations int
}

func newFakeDocs(seed string) *fakeDocs {
	return &fakeDocs{content: utf16.Encode([]rune(seed))}
}

func (f *fakeDocs) text() string {
	return string(utf16.Decode(f.content))
}

func u16len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

func (f *fakeDocs) Get(ctx context.Context, docID string) (*docs.Document, error) {
	var elems []*docs.StructuralElement
	idx := int64(1)
	for _, p := range strings.SplitAfter(f.text(), "\n") {
		if p == "" {
			continue
		}
		end := idx + u16len(p)
		elems = append(elems, &docs.StructuralElement{
			StartIndex: idx,
			EndIndex:   end,
			Paragraph: &docs.Paragraph{
				Elements: []*docs.ParagraphElement{{
					StartIndex: idx,
					EndIndex:   end,
					TextRun:    &docs.TextRun{Content: p},
				}},
			},
		})
		idx = end
	}
	return &docs.Document{Body: &docs.Body{Content: elems}}, nil
}

func (f *fakeDocs) checkRange(start, end int64) error {
	if start < 1 || end < start || end > int64(len(f.content))+1 {
		return goerr.New("range out of bounds",
			goerr.V("start", start), goerr.V("end", end), goerr.V("len", len(f.content)))
	}
	return nil
}

func (f *fakeDocs) BatchUpdate(ctx context.Context, docID string, reqs []*docs.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	for _, r := range reqs {
		switch {
		case r.InsertText != nil:
			at := r.InsertText.Location.Index - 1
			if at < 0 || at > int64(len(f.content)) {
				return goerr.New("insert index out of bounds", goerr.V("index", at+1))
			}
			ins := utf16.Encode([]rune(r.InsertText.Text))
			rest := append([]uint16{}, f.content[at:]...)
			f.content = append(f.content[:at], append(ins, rest...)...)
			f.mutations++
		case r.DeleteContentRange != nil:
			rng := r.DeleteContentRange.Range
			if err := f.checkRange(rng.StartIndex, rng.EndIndex); err != nil {
				return err
			}
			f.content = append(f.content[:rng.StartIndex-1], f.content[rng.EndIndex-1:]...)
			f.mutations++
		case r.UpdateTextStyle != nil:
			rng := r.UpdateTextStyle.Range
			if err := f.checkRange(rng.StartIndex, rng.EndIndex); err != nil {
				return err
			}
		case r.CreateParagraphBullets != nil:
			rng := r.CreateParagraphBullets.Range
			if err := f.checkRange(rng.StartIndex, rng.EndIndex); err != nil {
				return err
			}
		}
	}
	return nil
}

func block(callID, date, title, body string) *model.SummaryBlock {
	return &model.SummaryBlock{
		CallID:       callID,
		Date:         date,
		Title:        title,
		Participants: []string{"Alice"},
		DurationSec:  1800,
		Body:         body,
	}
}

func TestInsertSummaryIdempotent(t *testing.T) {
	store := newFakeDocs("\n")
	uc := docsync.New(store)
	ctx := context.Background()

	b := block("c1", "2024-01-05", "Kickoff", "We kicked off.")

	inserted, err := uc.InsertSummary(ctx, "doc1", b)
	gt.NoError(t, err)
	gt.Equal(t, inserted, true)

	inserted, err = uc.InsertSummary(ctx, "doc1", b)
	gt.NoError(t, err)
	gt.Equal(t, inserted, false)

	gt.Equal(t, strings.Count(store.text(), "Call ID: c1"), 1)
	gt.Equal(t, store.mutations, 1)
}

func TestReadNormalizedSortsByDate(t *testing.T) {
	store := newFakeDocs("\n")
	uc := docsync.New(store)
	ctx := context.Background()

	// Completion order is the reverse of chronological order.
	gt.NoError(t, justErr(uc.InsertSummary(ctx, "doc1", block("c2", "2024-03-10", "Deep dive", "Later call."))))
	gt.NoError(t, justErr(uc.InsertSummary(ctx, "doc1", block("c1", "2024-01-05", "Kickoff", "Earlier call."))))

	text, err := uc.ReadNormalized(ctx, "doc1")
	gt.NoError(t, err)

	jan := strings.Index(text, "2024-01-05")
	mar := strings.Index(text, "2024-03-10")
	gt.NotEqual(t, jan, -1)
	gt.NotEqual(t, mar, -1)
	gt.Equal(t, jan < mar, true)
}

func justErr(_ bool, err error) error { return err }

func TestReadNormalizedPassthrough(t *testing.T) {
	seed := "Some notes without any summary blocks.\n"
	store := newFakeDocs(seed)
	uc := docsync.New(store)

	text, err := uc.ReadNormalized(context.Background(), "doc1")
	gt.NoError(t, err)
	gt.Equal(t, text, seed)
}

func brief() *model.IntelligenceBrief {
	return &model.IntelligenceBrief{
		Account:      "Acme",
		LastUpdated:  "2024-03-11",
		TotalCalls:   2,
		QuickContext: []string{"Evaluating the platform", "Security review pending"},
		NextActions:  []string{"Send pricing by Friday"},
		CallHistory: []model.CallHistoryEntry{
			{Date: "2024-03-10", Type: "Technical", OneSentence: "Deep dive on integration."},
			{Date: "2024-01-05", Type: "Discovery", OneSentence: "Initial kickoff."},
		},
	}
}

func TestWriteIntelligencePrepend(t *testing.T) {
	store := newFakeDocs("\n")
	uc := docsync.New(store)
	ctx := context.Background()

	gt.NoError(t, justErr(uc.InsertSummary(ctx, "doc1", block("c1", "2024-01-05", "Kickoff", "We kicked off."))))
	gt.NoError(t, uc.WriteIntelligence(ctx, "doc1", brief()))

	text := store.text()
	gt.Equal(t, strings.Count(text, "END ACCOUNT INTELLIGENCE"), 1)
	gt.Equal(t, strings.Count(text, "ACCOUNT INTELLIGENCE"), 2)
	gt.Equal(t, strings.Count(text, "Call ID: c1"), 1)
	gt.S(t, text).
		Contains("QUICK CONTEXT").
		Contains("None identified").
		Contains("2024-03-10 - Technical: Deep dive on integration.")
}

func TestWriteIntelligenceReplaceKeepsLengthInvariant(t *testing.T) {
	// The replaced range runs from the start-marker paragraph to the
	// end-marker paragraph inclusive.
	oldSection := "ACCOUNT INTELLIGENCE\n" +
		"Account: Acme\n" +
		"Stale content\n" +
		"END ACCOUNT INTELLIGENCE\n"
	summaries := block("c1", "2024-01-05", "Kickoff", "We kicked off.").Render() + "\n"

	store := newFakeDocs(oldSection + summaries)
	uc := docsync.New(store)

	// Measure the rendered section length via a plain prepend on an
	// otherwise empty document.
	probe := newFakeDocs("\n")
	gt.NoError(t, docsync.New(probe).WriteIntelligence(context.Background(), "probe", brief()))
	sectionLen := int64(len(probe.content)) - 1

	lenBefore := int64(len(store.content))
	gt.NoError(t, uc.WriteIntelligence(context.Background(), "doc1", brief()))

	text := store.text()
	gt.Equal(t, strings.Count(text, "END ACCOUNT INTELLIGENCE"), 1)
	gt.S(t, text).NotContains("Stale content").Contains("Call ID: c1")
	gt.Equal(t, strings.Count(text, "Call ID: c1"), 1)

	gt.Equal(t, int64(len(store.content)), lenBefore-u16len(oldSection)+sectionLen)
}

func TestWriteIntelligenceMissingEndMarkerFails(t *testing.T) {
	store := newFakeDocs("ACCOUNT INTELLIGENCE\ntruncated garbage\n")
	uc := docsync.New(store)

	err := uc.WriteIntelligence(context.Background(), "doc1", brief())
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("without end marker")
	gt.Equal(t, store.mutations, 0)
}

func TestApplyInlineFormattingSecondPassIsNoOp(t *testing.T) {
	store := newFakeDocs("=== CALL SUMMARY: 2024-01-05 - Kickoff ===\n" +
		"**Next steps** were agreed.\n" +
		"- follow up with legal\n" +
		"- send pricing\n")
	uc := docsync.New(store)
	ctx := context.Background()

	gt.NoError(t, uc.ApplyInlineFormatting(ctx, "doc1"))

	text := store.text()
	gt.S(t, text).
		NotContains("**").
		NotContains("- follow").
		Contains("Next steps were agreed.").
		Contains("follow up with legal")

	afterFirst := store.text()
	mutationsAfterFirst := store.mutations

	gt.NoError(t, uc.ApplyInlineFormatting(ctx, "doc1"))
	gt.Equal(t, store.text(), afterFirst)
	gt.Equal(t, store.mutations, mutationsAfterFirst)
}

func TestApplyInlineFormattingNonASCII(t *testing.T) {
	// The 🚀 rune occupies two UTF-16 code units; offsets past it must
	// account for that or the trailing bold markers land off by one.
	store := newFakeDocs("launch 🚀 plan **soon**\n")
	uc := docsync.New(store)

	gt.NoError(t, uc.ApplyInlineFormatting(context.Background(), "doc1"))
	gt.Equal(t, store.text(), "launch 🚀 plan soon\n")
}
