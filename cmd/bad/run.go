package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/svmpsp/bad-framework/internal/monitor"
	"github.com/svmpsp/bad-framework/internal/suite"
	ltime "github.com/svmpsp/bad-framework/pkg/time"
)

func newRunCmd() *cobra.Command {
	var (
		files    suite.SubmissionFiles
		dataName string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "submit a suite and wait for it to finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			settings, err := suite.LoadSubmission(fs, files, dataName, suite.SubmissionDefaults{
				Seed:         clientCfg.Seed,
				TrainsetSize: clientCfg.TrainsetSize,
			})
			if err != nil {
				return err
			}
			settings.MasterAddress = clientCfg.MasterAddress

			master := masterClient()
			suiteId, err := master.SubmitSuite(cmd.Context(), settings)
			if err != nil {
				return err
			}
			log.Printf("submitted suite %s", suiteId)

			ticker := ltime.NewWallTicker(monitor.PollInterval)
			defer ticker.Close()

			mon := monitor.NewMonitor(master, ticker, ltime.NewWallWatch(), os.Stdout)
			summary, err := mon.Wait(cmd.Context(), suiteId)
			if err != nil {
				return err
			}
			fmt.Printf("suite %s finished: %d completed, %d failed of %d experiments\n",
				suiteId, summary.Completed, summary.Failed, summary.Total)

			return downloadDump(cmd.Context(), suiteId, clientCfg.DumpFile)
		},
	}

	cmd.Flags().StringVar(&files.Candidate, "candidate", "", "path to the candidate source file")
	cmd.Flags().StringVar(&files.Parameters, "parameters", "", "path to the candidate parameter file")
	cmd.Flags().StringVar(&files.Requirements, "requirements", "", "path to the candidate requirements file")
	cmd.Flags().StringVar(&files.Workers, "workers", "", "path to the worker list file, one hostname:port per line")
	cmd.Flags().StringVar(&dataName, "data", "", "run against a single dataset instead of the whole catalog")
	cmd.MarkFlagRequired("candidate")
	cmd.MarkFlagRequired("parameters")

	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
