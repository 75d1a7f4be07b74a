// Package restapi exposes the master HTTP API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/grid"
	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/report"
	"github.com/svmpsp/bad-framework/internal/store"
	"github.com/svmpsp/bad-framework/internal/suite"
	lhttp "github.com/svmpsp/bad-framework/pkg/http"
	sbhttp "github.com/svmpsp/bad-framework/pkg/serverbase/http"
	sbhttpbase "github.com/svmpsp/bad-framework/pkg/serverbase/http/base"
	sbhttpserver "github.com/svmpsp/bad-framework/pkg/serverbase/http/server"
)

// MasterServer serves the suite, experiment, candidate and dataset endpoints
// of the master. Handler failures turn into error responses; the process
// itself never goes down on a bad request.
type MasterServer struct {
	store       store.Store
	coordinator *suite.Coordinator
	reporter    *report.Reporter
	fs          afero.Fs
	resultsDir  string
}

var _ sbhttpserver.Server = &MasterServer{}

func NewMasterServer(store store.Store, coordinator *suite.Coordinator, reporter *report.Reporter, fs afero.Fs, resultsDir string) *MasterServer {
	return &MasterServer{
		store:       store,
		coordinator: coordinator,
		reporter:    reporter,
		fs:          fs,
		resultsDir:  resultsDir,
	}
}

func (s *MasterServer) Ready(ctx context.Context) error {
	_, err := s.store.Workers().ListWorkers(ctx)
	return err
}

// Live doesn't do any check. Just answering the request is enough evidence we're alive
func (s *MasterServer) Live(ctx context.Context) error {
	return nil
}

func (s *MasterServer) Shutdown() error {
	return nil
}

func (s *MasterServer) GetHandlers() []sbhttpserver.HandleDescription {
	return []sbhttpserver.HandleDescription{
		{Method: http.MethodPost, Path: "/suite", Handler: s.handleSubmitSuite},
		{Method: http.MethodGet, Path: "/suite/:suite_id/experiments", Handler: s.handleSuiteStatus},
		{Method: http.MethodGet, Path: "/suite/:suite_id/dump", Handler: s.handleSuiteDump},
		{Method: http.MethodPost, Path: "/experiment/:experiment_id/status", Handler: s.handleExperimentStatus},
		{Method: http.MethodPost, Path: "/experiment/:experiment_id/results", Handler: s.handleExperimentResults},
		{Method: http.MethodGet, Path: "/candidate/:candidate_id", Handler: s.handleGetCandidate},
		{Method: http.MethodGet, Path: "/dataset/:dataset_name", Handler: s.handleGetDataset},
	}
}

func (s *MasterServer) handleSubmitSuite(request *sbhttpbase.Request) {
	var settings models.SuiteSettings
	if err := json.NewDecoder(request.Request.Body).Decode(&settings); err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	suiteId, err := s.coordinator.Submit(request.Request.Context(), &settings)
	if err != nil {
		log.Printf("suite submission failed: %v", err)
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}
	sbhttp.WriteJson(request.Writer, http.StatusOK, &models.SuiteCreated{SuiteId: suiteId})
}

func (s *MasterServer) handleSuiteStatus(request *sbhttpbase.Request) {
	status, err := s.reporter.SuiteStatus(request.Request.Context(), request.Params["suite_id"])
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}

	if wanted := request.Request.URL.Query().Get("status"); wanted != "" {
		if _, err := store.ParseStatus(wanted); err != nil {
			sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
			return
		}
		filtered := status.Experiments[:0:0]
		for _, experiment := range status.Experiments {
			if experiment.Status == wanted {
				filtered = append(filtered, experiment)
			}
		}
		status.Experiments = filtered
	}
	sbhttp.WriteJson(request.Writer, http.StatusOK, status)
}

func (s *MasterServer) handleSuiteDump(request *sbhttpbase.Request) {
	suiteId := request.Params["suite_id"]

	// Errors after the first byte cannot change the response code anymore,
	// so the dump is staged before writing.
	var dump bytes.Buffer
	if err := s.reporter.WriteDump(request.Request.Context(), suiteId, &dump); err != nil {
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}

	request.Writer.Header().Set("Content-Type", "text/csv")
	request.Writer.Header().Set("Content-Disposition", "attachment; filename="+suiteId+".csv")
	request.Writer.WriteHeader(http.StatusOK)
	request.Writer.Write(dump.Bytes())
}

func (s *MasterServer) handleExperimentStatus(request *sbhttpbase.Request) {
	var update models.StatusUpdate
	if err := json.NewDecoder(request.Request.Body).Decode(&update); err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	status, err := store.ParseStatus(update.Status)
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	if _, err := s.store.Experiments().UpdateExperimentStatus(request.Request.Context(), request.Params["experiment_id"], status); err != nil {
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}
	request.Writer.WriteHeader(http.StatusOK)
}

func (s *MasterServer) handleExperimentResults(request *sbhttpbase.Request) {
	experimentId := request.Params["experiment_id"]

	if err := request.Request.ParseMultipartForm(32 << 20); err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	metricsPath, err := s.saveResultFile(request.Request, experimentId, "metrics", "metrics.json")
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}
	rocPath, err := s.saveResultFile(request.Request, experimentId, "roc", "roc.png")
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	if _, err := s.store.Experiments().AttachExperimentResults(request.Request.Context(), experimentId, metricsPath, rocPath); err != nil {
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}
	request.Writer.WriteHeader(http.StatusOK)
}

func (s *MasterServer) saveResultFile(r *http.Request, experimentId, field, filename string) (string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.resultsDir, experimentId)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := afero.WriteFile(s.fs, path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *MasterServer) handleGetCandidate(request *sbhttpbase.Request) {
	candidate, err := s.store.Candidates().GetCandidate(request.Request.Context(), request.Params["candidate_id"])
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}
	request.Writer.Header().Set("Content-Type", "text/plain")
	request.Writer.WriteHeader(http.StatusOK)
	request.Writer.Write([]byte(candidate.Source))
}

func (s *MasterServer) handleGetDataset(request *sbhttpbase.Request) {
	dataset, err := s.store.Datasets().GetDatasetByName(request.Request.Context(), request.Params["dataset_name"])
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, toHttpError(err))
		return
	}

	content, err := afero.ReadFile(s.fs, dataset.Path)
	if err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewInternalError(err.Error()))
		return
	}
	request.Writer.Header().Set("Content-Type", "application/octet-stream")
	request.Writer.WriteHeader(http.StatusOK)
	request.Writer.Write(content)
}

func toHttpError(err error) *lhttp.HttpError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return lhttp.NewNotFound(err.Error())
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrUnknownStatus):
		return lhttp.NewConflict(err.Error())
	case errors.Is(err, grid.ErrInvalidParameter):
		return lhttp.NewBadRequest(err.Error())
	default:
		return lhttp.NewInternalError(err.Error())
	}
}
