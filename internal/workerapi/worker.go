// Package workerapi provides HTTP clients for the master and worker APIs.
package workerapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/models"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
)

// Dispatcher sends experiments to workers.
type Dispatcher interface {
	Setup(ctx context.Context, workerAddress string, req *models.SetupRequest) error
	Run(ctx context.Context, workerAddress string, req *models.RunRequest) error
}

// WorkerClient talks to worker processes.
type WorkerClient struct {
	client cbhttp.Client
}

var _ Dispatcher = &WorkerClient{}

func NewWorkerClient(client cbhttp.Client) *WorkerClient {
	return &WorkerClient{client: client}
}

// Setup asks the worker at workerAddress to prepare its environment for a
// suite. The call blocks until the worker has installed the candidate
// requirements and downloaded the datasets.
func (c *WorkerClient) Setup(ctx context.Context, workerAddress string, req *models.SetupRequest) error {
	uri := fmt.Sprintf("http://%s/setup", workerAddress)
	herr := c.client.DoNoResponse(cbhttp.NewRequest(ctx, http.MethodPost, uri,
		cbhttp.BodyObj(req),
		cbhttp.RetryAttempts(3),
		cbhttp.RetryFixedDelay(time.Second),
	))
	if herr != nil {
		return errors.Wrapf(herr, "setup failed on worker %s", workerAddress)
	}
	return nil
}

// Run dispatches a single experiment to the worker at workerAddress. The
// worker acknowledges the dispatch and executes in the background, so a nil
// error only means the experiment was accepted.
func (c *WorkerClient) Run(ctx context.Context, workerAddress string, req *models.RunRequest) error {
	uri := fmt.Sprintf("http://%s/run", workerAddress)
	herr := c.client.DoNoResponse(cbhttp.NewRequest(ctx, http.MethodPost, uri,
		cbhttp.BodyObj(req),
	))
	if herr != nil {
		return errors.Wrapf(herr, "run dispatch failed on worker %s", workerAddress)
	}
	return nil
}
