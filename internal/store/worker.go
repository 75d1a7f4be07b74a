package store

import (
	"context"
	"fmt"
)

// Worker is a remote execution agent. At most one experiment may be running
// on a worker at any instant.
type Worker struct {
	Id            string
	Hostname      string
	Port          int
	MasterAddress string
}

// Address is the host:port the master dials to reach the worker.
func (w *Worker) Address() string {
	return fmt.Sprintf("%s:%d", w.Hostname, w.Port)
}

type WorkerService interface {
	CreateWorker(ctx context.Context, hostname string, port int, masterAddress string) (*Worker, error)
	ListWorkers(ctx context.Context) ([]*Worker, error)
}
