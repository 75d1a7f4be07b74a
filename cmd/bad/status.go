package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svmpsp/bad-framework/internal/models"
)

func newStatusCmd() *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "status <suite-id>",
		Short: "print the status of every experiment in a suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *models.ExperimentFilter
			if statusFilter != "" {
				filter = &models.ExperimentFilter{Status: statusFilter}
			}
			status, err := masterClient().SuiteStatusFiltered(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}
			for _, experiment := range status.Experiments {
				fmt.Printf("%s\t%s\n", experiment.Id, experiment.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFilter, "status", "", "only show experiments in this state")
	return cmd
}

func init() {
	rootCmd.AddCommand(newStatusCmd())
}
