package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/usecase/docsync"
	"github.com/k-shimizu/callbrief/pkg/usecase/intel"
	"github.com/k-shimizu/callbrief/pkg/usecase/locate"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

// synthCommand re-runs synthesis over an existing account document
// without touching the recording platform. Useful after hand-editing
// summaries or when testing prompt changes.
func synthCommand(cfg *config) *cli.Command {
	flags := llmFlags(cfg)
	flags = append(flags, googleFlags(cfg)...)

	return &cli.Command{
		Name:      "synth",
		Usage:     "Re-synthesize the intelligence section of an existing account document",
		ArgsUsage: "<account>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogger()
			account := c.Args().First()
			if account == "" {
				return goerr.New("account name is required")
			}
			if err := cfg.validateVendor(); err != nil {
				return err
			}
			ctx = logging.WithAttrs(ctx, "account", account)

			llm, err := cfg.newLLM(ctx)
			if err != nil {
				return err
			}
			docsSvc, err := cfg.newDocs(ctx)
			if err != nil {
				return err
			}
			driveSvc, err := cfg.newDrive(ctx)
			if err != nil {
				return err
			}

			docURL, err := locate.New(driveSvc, llm, cfg.accountsRootFolder).Find(ctx, account)
			if err != nil {
				return err
			}
			if docURL == "" {
				return goerr.New("no document found for account", goerr.V("account", account))
			}

			sync := docsync.New(docsSvc)
			docID := model.DocIDFromURL(docURL)

			summaries, err := sync.ReadNormalized(ctx, docID)
			if err != nil {
				return err
			}

			brief, err := intel.New(llm, intel.WithVendorName(cfg.vendorName)).Synthesize(ctx, summaries, account)
			if err != nil {
				return err
			}

			if err := sync.WriteIntelligence(ctx, docID, brief); err != nil {
				return err
			}

			fmt.Printf("Intelligence updated: %s\n", docURL)
			return nil
		},
	}
}
