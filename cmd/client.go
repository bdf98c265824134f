package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Guen0x/Redis-mongo-ubereat/app"
	"github.com/Guen0x/Redis-mongo-ubereat/config"
	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

var clientID string

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Place an order interactively",
	Long:  "Shows a few restaurants and their menus, publishes the chosen order request and waits for the coordinator's decision.",
	RunE:  runClient,
}

func init() {
	clientCmd.Flags().StringVar(&clientID, "id", "", "client identifier (default: generated)")
	rootCmd.AddCommand(clientCmd)
}

func runClient(cmd *cobra.Command, args []string) error {
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
			logger.New("client").Errorf("backend close: %v", err)
		}
	}()

	if clientID == "" {
		u := uuid.New()
		clientID = fmt.Sprintf("client-%x", u[:3])
	}

	dir := directory.New(backend.Restaurants)
	restaurants, err := dir.Sample(ctx, 5)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}
	if len(restaurants) == 0 {
		return fmt.Errorf("no restaurants found, load a CSV first with %q", "ubereat load")
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("=== Pick a restaurant ===")
	for i, r := range restaurants {
		line := fmt.Sprintf("%d. %s", i+1, displayName(r))
		if r.City != "" {
			line += fmt.Sprintf(" (%s)", r.City)
		}
		fmt.Println(line)
	}
	idx, err := promptIndex(scanner, "Restaurant number: ", len(restaurants))
	if err != nil {
		return err
	}
	resto := restaurants[idx]

	menu, err := dir.Menu(ctx, resto.Key)
	if err != nil {
		return fmt.Errorf("menu for %s: %w", resto.Key, err)
	}
	fmt.Printf("\n=== Menu of %s ===\n", displayName(resto))
	for i, dish := range menu {
		fmt.Printf("%d. %s\n", i+1, dish)
	}
	dsel, err := promptIndex(scanner, "Dish number: ", len(menu))
	if err != nil {
		return err
	}

	u := uuid.New()
	req := model.OrderRequest{
		ID:            fmt.Sprintf("req-%x", u[:4]),
		ClientID:      clientID,
		RestaurantRef: resto.Key,
		Dish:          menu[dsel],
		SubmittedAt:   time.Now(),
		Status:        model.RequestPending,
	}
	// Subscribe before publishing so the decision cannot slip past.
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
	fmt.Printf("\nOrder request %s sent: %s from %s\n", req.ID, req.Dish, displayName(resto))

	return waitDecision(ctx, decisions, req.ID)
}

func displayName(r model.Restaurant) string {
	if r.Name != "" {
		return r.Name
	}
	return r.Key
}

func promptIndex(scanner *bufio.Scanner, prompt string, n int) (int, error) {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return 0, fmt.Errorf("no input")
	}
	idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || idx < 1 || idx > n {
		return 0, fmt.Errorf("invalid choice %q", scanner.Text())
	}
	return idx - 1, nil
}

func waitDecision(ctx context.Context, decisions <-chan channel.Message, requestID string) error {
	timeout := time.NewTimer(time.Minute)
	defer timeout.Stop()
	select {
	case <-ctx.Done():
		return nil
	case <-timeout.C:
		fmt.Println("No decision received within a minute, check the coordinator.")
		return nil
	case msg, ok := <-decisions:
		if !ok {
			return nil
		}
		d, err := model.DecodeDecision(msg.Payload)
		if err != nil {
			return err
		}
		switch d.Status {
		case model.RequestApproved:
			fmt.Printf("Request %s approved, a courier is being dispatched.\n", requestID)
		default:
			fmt.Printf("Request %s rejected.\n", requestID)
		}
		return nil
	}
}
