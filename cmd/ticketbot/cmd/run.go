package cmd

import (
	"fmt"
	"os"

	"ticketbot-backend/lib/automation"
	"ticketbot-backend/lib/configutil"

	"github.com/spf13/cobra"
)

var runConfigPath string

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a run configuration json5 file")
	runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute an automation run described by a configuration file.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := configutil.ReadConfig[automation.Config](runConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if config.BaseUrl == "" {
			config.BaseUrl = baseUrl
		}
		if config.Timeout > 0 {
			timeout = config.Timeout
		}

		client := newClient(cmd.Context(), config.BaseUrl)
		runner := automation.NewRunner(client, automation.OSEnvironment{})
		if err := runner.Run(cmd.Context(), config); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}
