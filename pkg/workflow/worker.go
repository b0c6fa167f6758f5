package workflow

import (
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// DefaultTaskQueue is the task queue workflows and workers meet on.
const DefaultTaskQueue = "callbrief-intel"

// NewWorker builds a worker serving the account-intelligence workflow
// and its activities on the given task queue.
func NewWorker(c client.Client, taskQueue string, acts *Activities) worker.Worker {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}

	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(AccountIntelligence)
	w.RegisterActivity(acts)
	return w
}
