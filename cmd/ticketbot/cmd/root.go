package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ticketbot-backend/lib/scrapers/kham"
	"ticketbot-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

const defaultBaseUrl = "https://kham.com.tw/application/utk01/UTK0101_03.aspx"

var (
	verbose bool
	baseUrl string
	timeout float64
)

var rootCmd = &cobra.Command{
	Use:   "ticketbot",
	Short: "ticketbot automates form-driven flows on the KHAM ticketing site.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		_, err := telemetry.SetupFromEnv(cmd.Context(), "ticketbot")
		if err != nil {
			if !os.IsNotExist(err) {
				slog.Warn("failed to setup telemetry", "err", err)
			}
			return
		}
		telemetry.InstrumentPerfStats(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", defaultBaseUrl, "base URL of the ticketing page")
	rootCmd.PersistentFlags().Float64Var(&timeout, "timeout", 15, "request timeout in seconds")
}

func newClient(ctx context.Context, base string) *kham.Client {
	client, err := kham.NewClient(ctx, kham.ClientOptions{
		BaseUrl: base,
		Timeout: time.Duration(timeout * float64(time.Second)),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return client
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
