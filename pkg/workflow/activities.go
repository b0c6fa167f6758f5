package workflow

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/usecase/discovery"
	"github.com/k-shimizu/callbrief/pkg/usecase/docsync"
	"github.com/k-shimizu/callbrief/pkg/usecase/intel"
	"github.com/k-shimizu/callbrief/pkg/usecase/locate"
	"github.com/k-shimizu/callbrief/pkg/usecase/summary"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

// Activities adapts the use cases to the durable execution engine.
// Every method is safely re-executable: reads are side-effect-free and
// the only mutating operations (insert, section write) are idempotent
// or replace-in-place.
type Activities struct {
	discovery *discovery.UseCase
	locate    *locate.UseCase
	summary   *summary.UseCase
	docsync   *docsync.UseCase
	intel     *intel.UseCase
}

func NewActivities(
	discovery *discovery.UseCase,
	locate *locate.UseCase,
	summary *summary.UseCase,
	docsync *docsync.UseCase,
	intel *intel.UseCase,
) *Activities {
	return &Activities{
		discovery: discovery,
		locate:    locate,
		summary:   summary,
		docsync:   docsync,
		intel:     intel,
	}
}

// scoped attaches a context logger so every line the use cases emit
// under this activity carries the workflow identity plus the given
// attributes.
func (a *Activities) scoped(ctx context.Context, attrs ...any) context.Context {
	if activity.IsActivity(ctx) {
		info := activity.GetInfo(ctx)
		attrs = append(attrs, "workflow_id", info.WorkflowExecution.ID)
	}
	return logging.WithAttrs(ctx, attrs...)
}

func (a *Activities) DiscoverCalls(ctx context.Context, account string, maxCalls int) (*discovery.Finding, error) {
	return a.discovery.Find(a.scoped(ctx, "account", account), account, maxCalls)
}

func (a *Activities) LocateDoc(ctx context.Context, account string) (string, error) {
	return a.locate.FindOrCreate(a.scoped(ctx, "account", account), account)
}

// FindDoc is the lookup-only variant used when no calls were found:
// it reports an existing document's location but never creates one.
func (a *Activities) FindDoc(ctx context.Context, account string) (string, error) {
	return a.locate.Find(a.scoped(ctx, "account", account), account)
}

func (a *Activities) SummarizeCall(ctx context.Context, callID string) (*model.SummaryBlock, error) {
	return a.summary.Summarize(a.scoped(ctx, "call_id", callID), callID)
}

func (a *Activities) InsertSummary(ctx context.Context, docURL string, block *model.SummaryBlock) (bool, error) {
	docID := model.DocIDFromURL(docURL)
	return a.docsync.InsertSummary(a.scoped(ctx, "doc_id", docID), docID, block)
}

func (a *Activities) ReadSummaries(ctx context.Context, docURL string) (string, error) {
	docID := model.DocIDFromURL(docURL)
	return a.docsync.ReadNormalized(a.scoped(ctx, "doc_id", docID), docID)
}

func (a *Activities) SynthesizeIntelligence(ctx context.Context, summariesText, account string) (*model.IntelligenceBrief, error) {
	return a.intel.Synthesize(a.scoped(ctx, "account", account), summariesText, account)
}

func (a *Activities) WriteIntelligence(ctx context.Context, docURL string, brief *model.IntelligenceBrief) error {
	docID := model.DocIDFromURL(docURL)
	return a.docsync.WriteIntelligence(a.scoped(ctx, "doc_id", docID), docID, brief)
}
