package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump <suite-id>",
		Short: "download the CSV result dump of a suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return downloadDump(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the dump to this file instead of the default")
	return cmd
}

func downloadDump(ctx context.Context, suiteId, path string) error {
	if path == "" {
		path = clientCfg.DumpFile
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := masterClient().DownloadDump(ctx, suiteId, out); err != nil {
		return err
	}
	log.Printf("saved suite dump to %s", path)
	return nil
}

func init() {
	rootCmd.AddCommand(newDumpCmd())
}
