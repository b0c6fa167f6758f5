package discovery

import (
	"strings"
	"time"

	"github.com/k-shimizu/callbrief/pkg/adapter"
)

// Fallback is the classifier policy applied when a match decision
// cannot be parsed from the model's response.
type Fallback string

const (
	// FailOpen accepts every call in the window.
	FailOpen Fallback = "fail_open"
	// FailClosed accepts none of them.
	FailClosed Fallback = "fail_closed"
)

// Valid reports whether the policy is a known value.
func (f Fallback) Valid() bool {
	return f == FailOpen || f == FailClosed
}

const (
	defaultWindowDays      = 30
	defaultMaxWindows      = 24
	defaultMaxEmptyWindows = 6
)

// UseCase discovers all calls belonging to a customer account by
// walking fixed-size time windows backward from now, draining every
// page of each window and classifying the window's calls with the LLM.
type UseCase struct {
	gong adapter.Gong
	llm  adapter.LLM

	windowDays      int
	maxWindows      int
	maxEmptyWindows int
	fallback        Fallback
	vendorDomain    string
	primaryUserIDs  []string
	now             func() time.Time
}

type Option func(*UseCase)

func WithWindowDays(days int) Option {
	return func(uc *UseCase) { uc.windowDays = days }
}

func WithMaxWindows(n int) Option {
	return func(uc *UseCase) { uc.maxWindows = n }
}

func WithMaxEmptyWindows(n int) Option {
	return func(uc *UseCase) { uc.maxEmptyWindows = n }
}

func WithFallback(f Fallback) Option {
	return func(uc *UseCase) { uc.fallback = f }
}

func WithVendorDomain(domain string) Option {
	return func(uc *UseCase) { uc.vendorDomain = domain }
}

// WithPrimaryUserIDs narrows platform searches to calls owned by the
// given users, which cuts page counts dramatically on busy tenants.
func WithPrimaryUserIDs(ids []string) Option {
	return func(uc *UseCase) { uc.primaryUserIDs = ids }
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

func New(gong adapter.Gong, llm adapter.LLM, opts ...Option) *UseCase {
	uc := &UseCase{
		gong:            gong,
		llm:             llm,
		windowDays:      defaultWindowDays,
		maxWindows:      defaultMaxWindows,
		maxEmptyWindows: defaultMaxEmptyWindows,
		fallback:        FailOpen,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ParsePrimaryUserIDs splits a comma-separated user ID list, dropping
// empty entries.
func ParsePrimaryUserIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
