package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Guen0x/Redis-mongo-ubereat/app"
	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

var loadCmd = &cobra.Command{
	Use:   "load <csv>",
	Short: "Bulk-load restaurants from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
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
			logger.New("loader").Errorf("backend close: %v", err)
		}
	}()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	loader := directory.NewLoader(backend.Restaurants, logger.New("loader"))
	n, err := loader.Load(ctx, f)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d restaurants.\n", n)
	return nil
}
