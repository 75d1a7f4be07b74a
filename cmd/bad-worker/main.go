package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/config"
	"github.com/svmpsp/bad-framework/internal/worker"
	"github.com/svmpsp/bad-framework/internal/workerapi"
	"github.com/svmpsp/bad-framework/pkg/app"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
	sbhttpserver "github.com/svmpsp/bad-framework/pkg/serverbase/http/server"
)

type dependencies struct {
	cfg       *config.WorkerConfig
	app       *app.Instance
	svc       *sbhttpserver.Instance
	workerApi *worker.Server
}

func initializeDependencies() (*dependencies, error) {
	cfg, err := config.NewWorkerConfigFromEnv()
	if err != nil {
		return nil, err
	}
	serverCfg, err := sbhttpserver.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}
	clientCfg, err := cbhttp.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}

	application := app.NewInstance()
	svc, err := sbhttpserver.NewInstance(serverCfg, application)
	if err != nil {
		return nil, err
	}
	client, err := cbhttp.NewInstance(clientCfg)
	if err != nil {
		return nil, err
	}
	application.AddCloseFunc(client.Close)

	dial := func(masterAddress string) *workerapi.MasterClient {
		return workerapi.NewMasterClient(client, masterAddress)
	}

	fs := afero.NewOsFs()
	env := worker.NewEnvironment(fs, cfg.HomeDir, dial, cfg.Pip)
	runner := worker.NewExecRunner(fs, cfg.Interpreter, cfg.RunnerScript)
	workerApi := worker.NewServer(application.Context(), env, runner, dial)

	return &dependencies{
		cfg:       cfg,
		app:       application,
		svc:       svc,
		workerApi: workerApi,
	}, nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	deps, err := initializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	if err := deps.svc.Register(sbhttpserver.NewMultiServer([]sbhttpserver.Server{deps.workerApi})); err != nil {
		panic(err)
	}
	if err := deps.svc.Serve(); err != nil {
		panic(err)
	}

	// Wait for the server to finish
	deps.app.WaitForFinish()
}
