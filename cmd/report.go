package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Guen0x/Redis-mongo-ubereat/app"
	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the earnings report from the order store",
	Long:  "Aggregates every completed order in the backend, for an end-of-day summary of courier and restaurant earnings.",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	backend, err := app.NewBackend(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.New("report").Errorf("backend close: %v", err)
		}
	}()

	rep, err := backend.Orders.Earnings(ctx)
	if err != nil {
		return fmt.Errorf("aggregate earnings: %w", err)
	}
	fmt.Print(rep)
	return nil
}
