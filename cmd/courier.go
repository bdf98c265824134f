package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Guen0x/Redis-mongo-ubereat/app"
	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/core/courier"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

var (
	courierID   string
	courierAuto bool
)

var courierCmd = &cobra.Command{
	Use:   "courier",
	Short: "Run a courier process",
	Long:  "Listens for job announcements, bids with an ETA estimate and displays this courier's assignment notifications.",
	RunE:  runCourier,
}

func init() {
	courierCmd.Flags().StringVar(&courierID, "id", "", "courier identifier (default: generated)")
	courierCmd.Flags().BoolVar(&courierAuto, "auto", false, "bid on every announcement without prompting")
	rootCmd.AddCommand(courierCmd)
}

func runCourier(cmd *cobra.Command, args []string) error {
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
			logger.New("courier").Errorf("backend close: %v", err)
		}
	}()

	courierCfg := cfg.Courier
	if courierID != "" {
		courierCfg.ID = courierID
	}
	var policy courier.AcceptPolicy
	if !courierAuto && !courierCfg.AutoAccept {
		policy = &courier.PromptAccept{In: os.Stdin, Out: os.Stdout}
	}
	agent, err := courier.New(courierCfg, backend.Channel, cfg.Channels, policy, logger.New("courier"), nil)
	if err != nil {
		return err
	}
	return agent.Run(ctx)
}
