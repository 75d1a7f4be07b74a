package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/svmpsp/bad-framework/internal/models"
	"github.com/svmpsp/bad-framework/internal/store"
	lhttp "github.com/svmpsp/bad-framework/pkg/http"
	sbhttp "github.com/svmpsp/bad-framework/pkg/serverbase/http"
	sbhttpbase "github.com/svmpsp/bad-framework/pkg/serverbase/http/base"
	sbhttpserver "github.com/svmpsp/bad-framework/pkg/serverbase/http/server"
)

// Server exposes the worker API. Setup is synchronous so the master's
// initialization barrier holds; run acknowledges immediately and executes in
// the background, reporting progress to the master.
type Server struct {
	env    *Environment
	runner CandidateRunner
	dial   MasterDialer

	context context.Context
	wg      sync.WaitGroup
}

var _ sbhttpserver.Server = &Server{}

func NewServer(ctx context.Context, env *Environment, runner CandidateRunner, dial MasterDialer) *Server {
	return &Server{
		env:     env,
		runner:  runner,
		dial:    dial,
		context: ctx,
	}
}

func (s *Server) Ready(ctx context.Context) error {
	return nil
}

// Live doesn't do any check. Just answering the request is enough evidence we're alive
func (s *Server) Live(ctx context.Context) error {
	return nil
}

func (s *Server) Shutdown() error {
	s.wg.Wait()
	return nil
}

func (s *Server) GetHandlers() []sbhttpserver.HandleDescription {
	return []sbhttpserver.HandleDescription{
		{Method: http.MethodPost, Path: "/setup", Handler: s.handleSetup},
		{Method: http.MethodPost, Path: "/run", Handler: s.handleRun},
	}
}

func (s *Server) handleSetup(request *sbhttpbase.Request) {
	var req models.SetupRequest
	if err := json.NewDecoder(request.Request.Body).Decode(&req); err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	if err := s.env.Setup(request.Request.Context(), &req); err != nil {
		log.Printf("setup for suite %s failed: %v", req.SuiteId, err)
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewInternalError(err.Error()))
		return
	}
	request.Writer.WriteHeader(http.StatusOK)
}

func (s *Server) handleRun(request *sbhttpbase.Request) {
	var req models.RunRequest
	if err := json.NewDecoder(request.Request.Body).Decode(&req); err != nil {
		sbhttp.ReturnHttpError(request.Writer, lhttp.NewBadRequest(err.Error()))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runExperiment(s.context, &req)
	}()
	request.Writer.WriteHeader(http.StatusOK)
}

func (s *Server) runExperiment(ctx context.Context, req *models.RunRequest) {
	master := s.dial(req.MasterAddress)

	if err := master.UpdateExperimentStatus(ctx, req.ExperimentId, store.StatusRunning.String()); err != nil {
		log.Printf("failed to report experiment %s running: %v", req.ExperimentId, err)
		return
	}

	result, err := s.runner.Run(ctx, RunSpec{
		CandidatePath: s.env.CandidatePath(req.SuiteId),
		DatasetPath:   s.env.DatasetPath(req.DataName),
		Parameters:    req.Parameters,
		ScratchDir:    s.env.ScratchDir(req.SuiteId, req.ExperimentId),
	})
	if err != nil {
		log.Printf("experiment %s failed: %v", req.ExperimentId, err)
		if err := master.UpdateExperimentStatus(ctx, req.ExperimentId, store.StatusFailed.String()); err != nil {
			log.Printf("failed to report experiment %s failure: %v", req.ExperimentId, err)
		}
		return
	}

	if err := master.UploadResults(ctx, req.ExperimentId, result.Metrics, result.RocPlot); err != nil {
		log.Printf("failed to upload results for experiment %s: %v", req.ExperimentId, err)
		if err := master.UpdateExperimentStatus(ctx, req.ExperimentId, store.StatusFailed.String()); err != nil {
			log.Printf("failed to report experiment %s failure: %v", req.ExperimentId, err)
		}
		return
	}
	log.Printf("experiment %s completed", req.ExperimentId)
}
