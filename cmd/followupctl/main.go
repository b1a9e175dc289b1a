package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd(defaultRuntimeFactory).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(factory RuntimeFactory) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "followupctl",
		Short:         "followupctl - manage follow-up tasks from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "Path to config file")

	open := func() (*Runtime, error) {
		return factory(configPath)
	}

	rootCmd.AddCommand(migrateCmd(open))
	rootCmd.AddCommand(todayCmd(open))
	rootCmd.AddCommand(completeCmd(open))
	rootCmd.AddCommand(createCmd(open))

	return rootCmd
}
