package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"go.temporal.io/sdk/client"

	"github.com/k-shimizu/callbrief/pkg/model"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
	"github.com/k-shimizu/callbrief/pkg/workflow"
)

func runCommand(cfg *config) *cli.Command {
	var maxCalls int64

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "max-calls",
			Usage:       "Maximum number of calls to analyze",
			Value:       workflow.DefaultMaxCalls,
			Sources:     cli.EnvVars("CALLBRIEF_MAX_CALLS"),
			Destination: &maxCalls,
		},
	}
	flags = append(flags, temporalFlags(cfg)...)

	return &cli.Command{
		Name:      "run",
		Usage:     "Trigger an account intelligence workflow and wait for the result",
		ArgsUsage: "<account>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogger()
			account := c.Args().First()
			if account == "" {
				return goerr.New("account name is required")
			}

			tc, err := cfg.newTemporalClient(ctx)
			if err != nil {
				return err
			}
			defer tc.Close()

			runID := model.NewRunID(account)
			logging.Default().Info("starting workflow",
				"workflow_id", runID, "account", account, "max_calls", maxCalls)

			we, err := tc.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
				ID:        runID,
				TaskQueue: cfg.taskQueue,
			}, workflow.AccountIntelligence, workflow.Input{
				Account:  account,
				MaxCalls: int(maxCalls),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to start workflow", goerr.V("workflow_id", runID))
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			sp.Suffix = fmt.Sprintf(" Generating intelligence for %s...", account)
			sp.Start()

			var result model.Result
			err = we.Get(ctx, &result)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "workflow failed", goerr.V("workflow_id", runID))
			}

			fmt.Println(result.String())
			return nil
		},
	}
}
