package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	// Local development keeps credentials in .env; a missing file is
	// not an error.
	_ = godotenv.Load()

	cfg := &config{}

	cmd := &cli.Command{
		Name:  "callbrief",
		Usage: "Account intelligence from sales call recordings",
		Flags: globalFlags(cfg),
		Commands: []*cli.Command{
			runCommand(cfg),
			workerCommand(cfg),
			scanCommand(cfg),
			summarizeCommand(cfg),
			synthCommand(cfg),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
