package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/k-shimizu/callbrief/pkg/usecase/summary"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

func summarizeCommand(cfg *config) *cli.Command {
	flags := gongFlags(cfg)
	flags = append(flags, llmFlags(cfg)...)

	return &cli.Command{
		Name:      "summarize",
		Usage:     "Summarize a single call and print the formatted block",
		ArgsUsage: "<call-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogger()
			callID := c.Args().First()
			if callID == "" {
				return goerr.New("call ID is required")
			}
			if err := cfg.validateVendor(); err != nil {
				return err
			}
			ctx = logging.WithAttrs(ctx, "call_id", callID)

			tuning, err := LoadTuning(cfg.tuningPath)
			if err != nil {
				return err
			}
			gong, err := cfg.newGong()
			if err != nil {
				return err
			}
			llm, err := cfg.newLLM(ctx)
			if err != nil {
				return err
			}

			opts := []summary.Option{summary.WithVendor(cfg.vendorName, cfg.vendorDomain)}
			if tuning.Summary.TargetWords > 0 {
				opts = append(opts, summary.WithTargetWords(tuning.Summary.TargetWords))
			}

			block, err := summary.New(gong, llm, opts...).Summarize(ctx, callID)
			if err != nil {
				return err
			}

			fmt.Print(block.Render())
			return nil
		},
	}
}
