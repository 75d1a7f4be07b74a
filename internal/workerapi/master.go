package workerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/svmpsp/bad-framework/internal/models"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
)

// MasterClient talks to the master REST API. It is used by workers to report
// experiment progress and by the command line client to submit and monitor
// suites.
type MasterClient struct {
	client  cbhttp.Client
	address string
}

func NewMasterClient(client cbhttp.Client, masterAddress string) *MasterClient {
	return &MasterClient{client: client, address: masterAddress}
}

func (c *MasterClient) uri(format string, args ...interface{}) string {
	return fmt.Sprintf("http://%s", c.address) + fmt.Sprintf(format, args...)
}

// SubmitSuite submits a benchmark suite for execution and returns the id
// assigned by the master.
func (c *MasterClient) SubmitSuite(ctx context.Context, settings *models.SuiteSettings) (string, error) {
	response, herr := c.client.Do(cbhttp.NewRequest(ctx, http.MethodPost, c.uri("/suite"),
		cbhttp.BodyObj(settings),
	))
	if herr != nil {
		return "", errors.Wrap(herr, "suite submission failed")
	}
	defer response.Close()

	var created models.SuiteCreated
	if err := json.NewDecoder(response).Decode(&created); err != nil {
		return "", errors.Wrap(err, "failed to decode suite submission response")
	}
	return created.SuiteId, nil
}

// SuiteStatus fetches the status of every experiment in a suite.
func (c *MasterClient) SuiteStatus(ctx context.Context, suiteId string) (*models.SuiteStatus, error) {
	return c.SuiteStatusFiltered(ctx, suiteId, nil)
}

// SuiteStatusFiltered fetches the status of the experiments in a suite that
// match the filter. A nil filter matches everything.
func (c *MasterClient) SuiteStatusFiltered(ctx context.Context, suiteId string, filter *models.ExperimentFilter) (*models.SuiteStatus, error) {
	request := cbhttp.NewRequest(ctx, http.MethodGet, c.uri("/suite/%s/experiments", suiteId))
	if filter != nil {
		request = request.Options(cbhttp.QueryObj(filter))
	}

	response, herr := c.client.Do(request)
	if herr != nil {
		return nil, errors.Wrapf(herr, "failed to fetch status for suite %s", suiteId)
	}
	defer response.Close()

	var status models.SuiteStatus
	if err := json.NewDecoder(response).Decode(&status); err != nil {
		return nil, errors.Wrap(err, "failed to decode suite status")
	}
	return &status, nil
}

// DownloadDump streams the CSV result dump for a suite to out.
func (c *MasterClient) DownloadDump(ctx context.Context, suiteId string, out io.Writer) error {
	response, herr := c.client.Do(cbhttp.NewRequest(ctx, http.MethodGet, c.uri("/suite/%s/dump", suiteId)))
	if herr != nil {
		return errors.Wrapf(herr, "failed to download dump for suite %s", suiteId)
	}
	defer response.Close()

	if _, err := io.Copy(out, response); err != nil {
		return errors.Wrap(err, "failed to write dump")
	}
	return nil
}

// UpdateExperimentStatus reports a lifecycle transition for an experiment.
func (c *MasterClient) UpdateExperimentStatus(ctx context.Context, experimentId string, status string) error {
	herr := c.client.DoNoResponse(cbhttp.NewRequest(ctx, http.MethodPost, c.uri("/experiment/%s/status", experimentId),
		cbhttp.BodyObj(&models.StatusUpdate{Status: status}),
	))
	if herr != nil {
		return errors.Wrapf(herr, "failed to update status of experiment %s", experimentId)
	}
	return nil
}

// UploadResults uploads the metrics document and the ROC plot produced by a
// completed experiment.
func (c *MasterClient) UploadResults(ctx context.Context, experimentId string, metrics []byte, rocPlot []byte) error {
	herr := c.client.DoNoResponse(cbhttp.NewRequest(ctx, http.MethodPost, c.uri("/experiment/%s/results", experimentId),
		cbhttp.FormFiles([]cbhttp.FormFile{
			{Field: "metrics", Filename: "metrics.json", Content: metrics},
			{Field: "roc", Filename: "roc.png", Content: rocPlot},
		}),
	))
	if herr != nil {
		return errors.Wrapf(herr, "failed to upload results for experiment %s", experimentId)
	}
	return nil
}

// GetCandidate downloads the candidate source for a suite.
func (c *MasterClient) GetCandidate(ctx context.Context, candidateId string) ([]byte, error) {
	response, herr := c.client.Do(cbhttp.NewRequest(ctx, http.MethodGet, c.uri("/candidate/%s", candidateId)))
	if herr != nil {
		return nil, errors.Wrapf(herr, "failed to download candidate %s", candidateId)
	}
	defer response.Close()

	return io.ReadAll(response)
}

// GetDataset downloads a dataset by name.
func (c *MasterClient) GetDataset(ctx context.Context, dataName string) ([]byte, error) {
	response, herr := c.client.Do(cbhttp.NewRequest(ctx, http.MethodGet, c.uri("/dataset/%s", dataName)))
	if herr != nil {
		return nil, errors.Wrapf(herr, "failed to download dataset %s", dataName)
	}
	defer response.Close()

	return io.ReadAll(response)
}
