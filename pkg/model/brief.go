package model

import "github.com/m-mizutani/goerr/v2"

var ErrInvalidBrief = goerr.New("invalid intelligence brief")

// CallHistoryEntry is one line of the brief's call history.
type CallHistoryEntry struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	OneSentence string `json:"one_sentence"`
}

// IntelligenceBrief is the synthesized account brief. It exists only in
// memory between synthesis and document write-back and is superseded
// wholesale on every run.
type IntelligenceBrief struct {
	Account          string             `json:"account"`
	LastUpdated      string             `json:"last_updated"`
	TotalCalls       int                `json:"total_calls"`
	QuickContext     []string           `json:"quick_context"`
	BlockingProgress []string           `json:"blocking_progress"`
	NextActions      []string           `json:"next_actions"`
	Risks            []string           `json:"risks"`
	CallHistory      []CallHistoryEntry `json:"call_history"`
}

// Validate checks the structural minimum. Field-count guidance given to
// the language model (e.g. "2-3 bullets") is a soft prompt hint and is
// deliberately not enforced here.
func (b *IntelligenceBrief) Validate() error {
	if b.Account == "" {
		return goerr.Wrap(ErrInvalidBrief, "account is empty")
	}
	for _, h := range b.CallHistory {
		if h.Date == "" {
			return goerr.Wrap(ErrInvalidBrief, "call history entry without date",
				goerr.V("entry", h))
		}
	}
	return nil
}
