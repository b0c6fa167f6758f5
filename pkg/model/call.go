package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// FlexTime is a timestamp that tolerates the three shapes the recording
// platform has been observed to emit: a numeric-string Unix timestamp,
// an ISO-8601 string (trailing "Z" treated as UTC), or a raw number.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "invalid timestamp string")
		}
		return t.parseString(s)
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return goerr.Wrap(err, "invalid timestamp number", goerr.V("raw", string(data)))
	}
	t.Time = time.Unix(int64(n), 0).UTC()
	return nil
}

func (t *FlexTime) parseString(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	if isDigits(s) {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return goerr.Wrap(err, "invalid unix timestamp", goerr.V("raw", s))
		}
		t.Time = time.Unix(sec, 0).UTC()
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return goerr.New("unrecognized timestamp format", goerr.V("raw", s))
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Date renders the timestamp as YYYY-MM-DD, or "" for the zero value.
func (t FlexTime) Date() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Party is one participant of a call.
type Party struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}

// CallMeta is the metadata envelope of a call record.
type CallMeta struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Scheduled FlexTime `json:"scheduled"`
	Started   FlexTime `json:"started"`
	// Duration is in seconds.
	Duration int64 `json:"duration"`
}

// CallRecord is an immutable call entity fetched from the recording
// platform. It is never persisted by this system except as a derived
// summary block.
type CallRecord struct {
	Meta    CallMeta `json:"metaData"`
	Parties []Party  `json:"parties"`
}

// SortTime is the key used to order calls newest-first: the scheduled
// time, falling back to the actual start time when scheduling is absent.
func (c *CallRecord) SortTime() time.Time {
	if !c.Meta.Scheduled.IsZero() {
		return c.Meta.Scheduled.Time
	}
	return c.Meta.Started.Time
}

// ExternalDomains returns the deduplicated email domains of all parties
// outside the vendor's own domain, in first-seen order.
func (c *CallRecord) ExternalDomains(vendorDomain string) []string {
	seen := map[string]bool{}
	var domains []string
	for _, p := range c.Parties {
		domain := EmailDomain(p.EmailAddress)
		if domain == "" || strings.EqualFold(domain, vendorDomain) {
			continue
		}
		if !seen[domain] {
			seen[domain] = true
			domains = append(domains, domain)
		}
	}
	return domains
}

// ExternalParticipants returns the names of all parties outside the
// vendor's own domain. Parties without an email address are skipped.
func (c *CallRecord) ExternalParticipants(vendorDomain string) []string {
	var names []string
	for _, p := range c.Parties {
		if p.EmailAddress == "" {
			continue
		}
		if strings.EqualFold(EmailDomain(p.EmailAddress), vendorDomain) {
			continue
		}
		name := p.Name
		if name == "" {
			name = "Unknown"
		}
		names = append(names, name)
	}
	return names
}

// Sentence is one fragment of a transcript entry.
type Sentence struct {
	Text string `json:"text"`
}

// TranscriptEntry is one speaker turn of a call transcript.
type TranscriptEntry struct {
	SpeakerID string     `json:"speakerId"`
	Sentences []Sentence `json:"sentences"`
}

// CallTranscript is the full transcript of one call.
type CallTranscript struct {
	CallID  string            `json:"callId"`
	Entries []TranscriptEntry `json:"transcript"`
}

// Text joins all entries into "Speaker <id>: <text>" lines.
func (t *CallTranscript) Text() string {
	lines := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		parts := make([]string, 0, len(e.Sentences))
		for _, s := range e.Sentences {
			parts = append(parts, s.Text)
		}
		lines = append(lines, "Speaker "+e.SpeakerID+": "+strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
