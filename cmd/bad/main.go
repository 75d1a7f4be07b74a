// Command bad is the benchmark client. It submits suites to a master,
// monitors their progress and downloads result dumps.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/svmpsp/bad-framework/internal/config"
	"github.com/svmpsp/bad-framework/internal/workerapi"
	cbhttp "github.com/svmpsp/bad-framework/pkg/clientbase/http"
)

var (
	flagMaster string

	clientCfg *config.ClientConfig
	client    *cbhttp.Instance
)

var rootCmd = &cobra.Command{
	Use:           "bad",
	Short:         "benchmark anomaly detection algorithms",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewClientConfigFromEnv()
		if err != nil {
			return err
		}
		if err := config.ApplyClientConfigFile(afero.NewOsFs(), config.ClientConfigFile, cfg); err != nil {
			return err
		}
		if flagMaster != "" {
			cfg.MasterAddress = flagMaster
		}
		clientCfg = cfg

		httpCfg, err := cbhttp.NewConfigFromEnv()
		if err != nil {
			return err
		}
		client, err = cbhttp.NewInstance(httpCfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

func masterClient() *workerapi.MasterClient {
	return workerapi.NewMasterClient(client, clientCfg.MasterAddress)
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	rootCmd.PersistentFlags().StringVar(&flagMaster, "master", "", "master address as hostname:port")

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
