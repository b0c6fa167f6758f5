package cli

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/k-shimizu/callbrief/pkg/usecase/discovery"
)

// Tuning holds the discovery and summarization thresholds that are
// policy rather than code: window sizing, stop conditions, the
// classifier fallback, and the summary length target.
type Tuning struct {
	Discovery struct {
		WindowDays      int    `yaml:"window_days"`
		MaxWindows      int    `yaml:"max_windows"`
		MaxEmptyWindows int    `yaml:"max_empty_windows"`
		Fallback        string `yaml:"fallback"`
	} `yaml:"discovery"`

	Summary struct {
		TargetWords int `yaml:"target_words"`
	} `yaml:"summary"`
}

// LoadTuning reads the tuning file. An empty path yields the zero
// Tuning, which leaves every use-case default in place.
func LoadTuning(path string) (*Tuning, error) {
	var t Tuning
	if path == "" {
		return &t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tuning file", goerr.V("path", path))
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, goerr.Wrap(err, "failed to parse tuning file", goerr.V("path", path))
	}

	if t.Discovery.Fallback != "" && !discovery.Fallback(t.Discovery.Fallback).Valid() {
		return nil, goerr.New("invalid classifier fallback policy",
			goerr.V("fallback", t.Discovery.Fallback))
	}

	return &t, nil
}

// discoveryOptions translates the non-zero tuning values into
// discovery options.
func (t *Tuning) discoveryOptions() []discovery.Option {
	var opts []discovery.Option
	if t.Discovery.WindowDays > 0 {
		opts = append(opts, discovery.WithWindowDays(t.Discovery.WindowDays))
	}
	if t.Discovery.MaxWindows > 0 {
		opts = append(opts, discovery.WithMaxWindows(t.Discovery.MaxWindows))
	}
	if t.Discovery.MaxEmptyWindows > 0 {
		opts = append(opts, discovery.WithMaxEmptyWindows(t.Discovery.MaxEmptyWindows))
	}
	if t.Discovery.Fallback != "" {
		opts = append(opts, discovery.WithFallback(discovery.Fallback(t.Discovery.Fallback)))
	}
	return opts
}
