package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

// scanCommand is a diagnostic: it runs title-based discovery with no
// LLM involved, which isolates the windowing and pagination behavior
// when classifier results look suspicious.
func scanCommand(cfg *config) *cli.Command {
	var maxCalls int64

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "max-calls",
			Usage:       "Maximum number of calls to list",
			Value:       30,
			Destination: &maxCalls,
		},
	}
	flags = append(flags, gongFlags(cfg)...)

	return &cli.Command{
		Name:      "scan",
		Usage:     "List calls whose title matches the account (no LLM)",
		ArgsUsage: "<account>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogger()
			account := c.Args().First()
			if account == "" {
				return goerr.New("account name is required")
			}
			ctx = logging.WithAttrs(ctx, "account", account)

			tuning, err := LoadTuning(cfg.tuningPath)
			if err != nil {
				return err
			}
			gong, err := cfg.newGong()
			if err != nil {
				return err
			}

			uc := cfg.newDiscovery(gong, nil, tuning)
			finding, err := uc.FindByTitle(ctx, account, int(maxCalls))
			if err != nil {
				return err
			}

			fmt.Printf("Found %d calls (%d total before truncation):\n", len(finding.CallIDs), finding.Total)
			for _, id := range finding.CallIDs {
				fmt.Println(id)
			}
			return nil
		},
	}
}
