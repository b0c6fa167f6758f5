package model

import (
	"fmt"
	"strings"
)

// BlockHeader is the literal prefix of each summary block in the
// document. Block extraction and counting both key on it.
const BlockHeader = "=== CALL SUMMARY:"

// IdempotencyKey is the literal substring searched for in a document to
// detect an already-inserted block for the given call.
func IdempotencyKey(callID string) string {
	return "Call ID: " + callID
}

// SummaryBlock is the atomic unit written to the shared document: one
// call's formatted summary plus the metadata embedded in its header.
type SummaryBlock struct {
	CallID       string   `json:"call_id"`
	Date         string   `json:"call_date"`
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	// DurationSec is the call duration in seconds.
	DurationSec int64  `json:"duration_sec"`
	Body        string `json:"body"`
}

// Render produces the block text. The header line and the "Call ID:"
// line are the delimiters and idempotency key other components search
// for, so this format must stay byte-for-byte stable.
func (b *SummaryBlock) Render() string {
	participants := strings.Join(b.Participants, ", ")
	if participants == "" {
		participants = "No external participants"
	}

	return fmt.Sprintf(`%s %s - %s ===
Call ID: %s
Participants: %s
Duration: %d minutes

%s

===
`, BlockHeader, b.Date, b.Title, b.CallID, participants, b.DurationSec/60, b.Body)
}
