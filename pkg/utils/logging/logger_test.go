package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

func TestNewLevels(t *testing.T) {
	testCases := []struct {
		level      string
		expectInfo bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"WARN", false},
		{"bogus", true}, // falls back to info
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, buf)
			gt.V(t, logger).NotNil()

			logger.Info("info line")
			logger.Error("error line")

			output := buf.String()
			if tc.expectInfo {
				gt.S(t, output).Contains("info line")
			} else {
				gt.S(t, output).NotContains("info line")
			}
			gt.S(t, output).Contains("error line")
		})
	}
}

func TestWithAndFrom(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", buf)

	ctx := logging.With(context.Background(), logger)
	gt.Equal(t, logging.From(ctx), logger)

	logging.From(ctx).Info("scoped line")
	gt.S(t, buf.String()).Contains("scoped line")
}

func TestWithAttrsTagsEveryLine(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logging.With(context.Background(), logging.New("info", buf))

	ctx = logging.WithAttrs(ctx, "account", "Acme corp")

	logging.From(ctx).Info("first")
	logging.From(ctx).Info("second")

	output := buf.String()
	gt.S(t, output).Contains("first")
	gt.S(t, output).Contains("second")
	gt.Equal(t, strings.Count(output, "Acme corp"), 2)
}

func TestFromFallsBackToDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logging.SetDefault(logging.New("warn", buf))

	logger := logging.From(context.Background())
	gt.Equal(t, logger, logging.Default())

	logger.Warn("fallback line")
	gt.S(t, buf.String()).Contains("fallback line")
}
