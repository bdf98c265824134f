package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Guen0x/Redis-mongo-ubereat/app"
	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

var (
	orderRestaurant string
	orderDish       string
	orderClient     string
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inject a test order request",
	RunE:  runOrder,
}

func init() {
	orderCmd.Flags().StringVar(&orderRestaurant, "restaurant", "", "restaurant key (required)")
	orderCmd.Flags().StringVar(&orderDish, "dish", "Plat du jour", "dish name")
	orderCmd.Flags().StringVar(&orderClient, "client", "client-test", "client identifier")
	_ = orderCmd.MarkFlagRequired("restaurant")
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
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
			logger.New("order").Errorf("backend close: %v", err)
		}
	}()

	u := uuid.New()
	req := model.OrderRequest{
		ID:            fmt.Sprintf("req-%x", u[:4]),
		ClientID:      orderClient,
		RestaurantRef: orderRestaurant,
		Dish:          orderDish,
		SubmittedAt:   time.Now(),
		Status:        model.RequestPending,
	}
	decisions, err := backend.Channel.Watch(ctx, cfg.Channels.Decisions, func(m channel.Message) bool {
		d, err := model.DecodeDecision(m.Payload)
		return err == nil && d.RequestID == req.ID
	})
	if err != nil {
		return fmt.Errorf("watch decisions: %w", err)
	}
	payload, _ := json.Marshal(req)
	if err := backend.Channel.Publish(ctx, cfg.Channels.Requests, payload); err != nil {
		return fmt.Errorf("publish request: %w", err)
	}
	fmt.Printf("Order request %s published on %q\n", req.ID, cfg.Channels.Requests)
	return waitDecision(ctx, decisions, req.ID)
}
