package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/svmpsp/bad-framework/internal/config"
	"github.com/svmpsp/bad-framework/internal/report"
	"github.com/svmpsp/bad-framework/internal/restapi"
	"github.com/svmpsp/bad-framework/internal/scheduler"
	"github.com/svmpsp/bad-framework/internal/store"
	"github.com/svmpsp/bad-framework/internal/store/memory"
	"github.com/svmpsp/bad-framework/internal/suite"
	"github.com/svmpsp/bad-framework/internal/workerapi"
	"github.com/svmpsp/bad-framework/pkg/app"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
	lconfig "github.com/svmpsp/bad-framework/pkg/config"
	sbhttpserver "github.com/svmpsp/bad-framework/pkg/serverbase/http/server"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

type dependencies struct {
	cfg       *config.MasterConfig
	app       *app.Instance
	svc       *sbhttpserver.Instance
	store     store.Store
	masterApi *restapi.MasterServer
	manager   *scheduler.Manager
}

func initializeDependencies() (*dependencies, error) {
	cfg, err := config.NewMasterConfigFromEnv()
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
	var schedulerCfg scheduler.Config
	if err := lconfig.Parse(&schedulerCfg); err != nil {
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

	fs := afero.NewOsFs()
	entityStore := memory.NewStore(ltime.NewWallWatch())
	dispatcher := workerapi.NewWorkerClient(client)

	manager := scheduler.NewManager(application.Context(),
		scheduler.NewScheduler(entityStore, dispatcher, ltime.NewWallSleeper(), &schedulerCfg))
	coordinator := suite.NewCoordinator(entityStore,
		scheduler.NewInitializer(entityStore, dispatcher), manager)
	reporter := report.NewReporter(entityStore, fs)
	masterApi := restapi.NewMasterServer(entityStore, coordinator, reporter, fs, cfg.ResultsDir)

	return &dependencies{
		cfg:       cfg,
		app:       application,
		svc:       svc,
		store:     entityStore,
		masterApi: masterApi,
		manager:   manager,
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

	ctx, cancel := app.BackgroundTimeoutContext()
	defer cancel()
	fs := afero.NewOsFs()
	if err := suite.RegisterDatasets(ctx, deps.store, fs, deps.cfg.DatasetDir); err != nil {
		log.Fatalf("failed to register datasets: %v", err)
	}

	workers := deps.cfg.Workers
	if len(workers) == 0 {
		if exists, _ := afero.Exists(fs, deps.cfg.WorkersFile); exists {
			content, err := afero.ReadFile(fs, deps.cfg.WorkersFile)
			if err != nil {
				log.Fatalf("failed to read workers file %s: %v", deps.cfg.WorkersFile, err)
			}
			workers = suite.ParseWorkers(string(content))
		}
	}
	if len(workers) == 0 {
		log.Printf("no workers configured, waiting for a suite submission to provide them")
	} else if err := suite.RegisterWorkers(ctx, deps.store, workers, deps.cfg.AdvertisedAddress); err != nil {
		log.Fatalf("failed to register workers: %v", err)
	}

	if err := deps.svc.Register(sbhttpserver.NewMultiServer([]sbhttpserver.Server{deps.masterApi})); err != nil {
		panic(err)
	}
	if err := deps.svc.Serve(); err != nil {
		panic(err)
	}

	defer deps.manager.Finish()

	// Wait for the server to finish
	deps.app.WaitForFinish()
}
