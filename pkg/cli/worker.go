package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"go.temporal.io/sdk/worker"

	"github.com/k-shimizu/callbrief/pkg/utils/logging"
	"github.com/k-shimizu/callbrief/pkg/workflow"
)

func workerCommand(cfg *config) *cli.Command {
	flags := gongFlags(cfg)
	flags = append(flags, llmFlags(cfg)...)
	flags = append(flags, googleFlags(cfg)...)
	flags = append(flags, temporalFlags(cfg)...)

	return &cli.Command{
		Name:  "worker",
		Usage: "Start a worker serving the account intelligence workflow",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogger()
			acts, err := cfg.newActivities(ctx)
			if err != nil {
				return err
			}

			tc, err := cfg.newTemporalClient(ctx)
			if err != nil {
				return err
			}
			defer tc.Close()

			logging.Default().Info("starting worker",
				"task_queue", cfg.taskQueue, "address", cfg.temporalAddress)

			w := workflow.NewWorker(tc, cfg.taskQueue, acts)
			if err := w.Run(worker.InterruptCh()); err != nil {
				return goerr.Wrap(err, "worker stopped with error")
			}
			return nil
		},
	}
}
