package auction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/directory"
	"github.com/Guen0x/Redis-mongo-ubereat/core/ledger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/logger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/metrics"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// Coordinator runs the order dispatch auction: intake of client requests,
// job announcement, time-boxed bid collection, winner selection, assignment
// and the earnings ledger. Orders are processed one at a time; traffic for
// other orders on the shared channels is filtered by order id.
type Coordinator struct {
	cfg      Config
	ch       channel.Channel
	topics   channel.Topics
	store    OrderStore
	dir      *directory.Directory
	ledger   *ledger.Ledger
	intake   *Intake
	fallback FallbackPolicy
	sink     metrics.Sink
	log      logger.Logger
	rng      *rand.Rand

	now      func() time.Time
	assigned map[string]struct{}
}

// NewCoordinator creates a Coordinator. sink may be nil; a nil rng falls
// back to a time-seeded source.
func NewCoordinator(cfg Config, ch channel.Channel, topics channel.Topics, store OrderStore, dir *directory.Directory, led *ledger.Ledger, sink metrics.Sink, log logger.Logger, rng *rand.Rand) (*Coordinator, error) {
	if ch == nil || store == nil || dir == nil || led == nil || log == nil {
		return nil, fmt.Errorf("auction: nil parameter provided to NewCoordinator")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	topics.SetDefaults()
	return &Coordinator{
		cfg:      cfg,
		ch:       ch,
		topics:   topics,
		store:    store,
		dir:      dir,
		ledger:   led,
		intake:   NewIntake(cfg.AutoApprove, cfg.ApproveProbability, rng),
		fallback: FallbackFromConfig(cfg.Fallback),
		sink:     sink,
		log:      log,
		rng:      rng,
		now:      time.Now,
		assigned: make(map[string]struct{}),
	}, nil
}

// SetClock overrides the time source, for tests.
func (c *Coordinator) SetClock(now func() time.Time) { c.now = now }

// Ledger exposes the earnings aggregates for reporting.
func (c *Coordinator) Ledger() *ledger.Ledger { return c.ledger }

// Run consumes order requests until ctx is done. Malformed requests are
// logged and skipped; a failed auction never stops the loop.
func (c *Coordinator) Run(ctx context.Context) error {
	reqs, err := c.ch.Subscribe(ctx, c.topics.Requests)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.topics.Requests, err)
	}
	c.log.Infof("waiting for order requests on %q", c.topics.Requests)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-reqs:
			if !ok {
				return nil
			}
			req, err := model.DecodeOrderRequest(msg.Payload)
			if err != nil {
				c.log.Warnf("dropping request: %v", err)
				continue
			}
			c.log.Infof("order request %s from %s: %s at %s", req.ID, req.ClientID, req.Dish, req.RestaurantRef)
			if err := c.HandleRequest(ctx, req); err != nil {
				c.log.Errorf("request %s: %v", req.ID, err)
			}
		}
	}
}

// HandleRequest runs one request through its whole lifecycle: decision,
// announcement, collection window, winner selection, assignment, ledger.
func (c *Coordinator) HandleRequest(ctx context.Context, req model.OrderRequest) error {
	approved, err := c.intake.Decide(req)
	if err != nil {
		c.recordDecision(ctx, req.ID, model.RequestRejected)
		return err
	}
	status := model.RequestRejected
	if approved {
		status = model.RequestApproved
	}
	c.recordDecision(ctx, req.ID, status)
	c.log.Infof("request %s %s", req.ID, status)
	if !approved {
		return nil
	}

	order := c.buildOrder(ctx, req)
	if err := c.store.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("save order %s: %w", order.ID, err)
	}
	return c.runAuction(ctx, order)
}

func (c *Coordinator) recordDecision(ctx context.Context, requestID string, status model.RequestStatus) {
	if err := c.store.RecordDecision(ctx, requestID, status); err != nil {
		c.log.Errorf("record decision for %s: %v", requestID, err)
	}
	payload, _ := json.Marshal(model.Decision{RequestID: requestID, Status: status, DecidedAt: c.now()})
	if err := c.ch.Publish(ctx, c.topics.Decisions, payload); err != nil {
		publishFailure.Inc()
		c.log.Errorf("publish decision for %s: %v", requestID, err)
	}
}

func (c *Coordinator) buildOrder(ctx context.Context, req model.OrderRequest) model.DeliveryOrder {
	u := uuid.New()
	return model.DeliveryOrder{
		ID:            fmt.Sprintf("order-%x", u[:4]),
		RequestID:     req.ID,
		RestaurantRef: req.RestaurantRef,
		ClientID:      req.ClientID,
		Dish:          req.Dish,
		Pickup:        c.dir.Pickup(ctx, req.RestaurantRef),
		Dropoff:       fmt.Sprintf("Client %s", req.ClientID),
		RewardEUR:     c.drawReward(),
		Status:        model.OrderAnnounced,
		CreatedAt:     c.now(),
	}
}

// drawReward draws uniformly in [min, max], rounded to 2 decimals.
func (c *Coordinator) drawReward() float64 {
	r := c.cfg.MinRewardEUR + c.rng.Float64()*(c.cfg.MaxRewardEUR-c.cfg.MinRewardEUR)
	return math.Round(r*100) / 100
}

// runAuction announces the order, collects bids for the configured window
// and resolves the outcome. The bid subscription opens before the
// announcement so early bids are never missed.
func (c *Coordinator) runAuction(ctx context.Context, order model.DeliveryOrder) error {
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	bids, err := c.ch.Subscribe(sctx, c.topics.Candidatures)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.topics.Candidatures, err)
	}

	if err := c.announce(ctx, order); err != nil {
		return err
	}

	pool := c.collect(sctx, order.ID, bids)
	bidPoolSize.Observe(float64(len(pool)))
	c.log.Infof("collection window for %s closed with %d candidature(s)", order.ID, len(pool))

	winner, err := SelectWinner(pool)
	if err != nil {
		if !errors.Is(err, ErrNoCandidates) {
			return err
		}
		asg, ok := c.fallback.Resolve(order, c.now())
		if !ok {
			assignmentsTotal.WithLabelValues("unassigned").Inc()
			c.log.Warnf("no candidatures for %s, order stays announced", order.ID)
			return nil
		}
		c.log.Warnf("no candidatures for %s, falling back to courier %s", order.ID, asg.CourierID)
		assignmentsTotal.WithLabelValues("fallback").Inc()
		return c.Assign(ctx, order, asg, 0)
	}

	assignmentsTotal.WithLabelValues("bid").Inc()
	asg := model.Assignment{
		OrderID:    order.ID,
		CourierID:  winner.CourierID,
		ETAMinutes: winner.ETAMinutes,
		AssignedAt: c.now(),
	}
	return c.Assign(ctx, order, asg, len(pool))
}

func (c *Coordinator) announce(ctx context.Context, order model.DeliveryOrder) error {
	ann := model.Announcement{
		OrderID:   order.ID,
		Pickup:    order.Pickup,
		Dropoff:   order.Dropoff,
		RewardEUR: order.RewardEUR,
		Details: model.AnnouncementDetails{
			Dish:      order.Dish,
			ClientID:  order.ClientID,
			RequestID: order.RequestID,
		},
		PublishedAt: c.now(),
	}
	payload, _ := json.Marshal(ann)
	if err := c.ch.Publish(ctx, c.topics.Announcements, payload); err != nil {
		publishFailure.Inc()
		return fmt.Errorf("publish announcement for %s: %w", order.ID, err)
	}
	announcementsTotal.Inc()
	if err := c.sink.RecordAnnouncement(metrics.AnnouncementEvent{
		OrderID:       order.ID,
		RestaurantRef: order.RestaurantRef,
		RewardEUR:     order.RewardEUR,
		Time:          c.now(),
	}); err != nil {
		c.log.Errorf("metrics sink: %v", err)
	}
	c.log.Infof("announced %s: %s -> %s for %.2f €", order.ID, order.Pickup, order.Dropoff, order.RewardEUR)
	return nil
}

// collect drains the bid stream until the window elapses. The deadline is
// wall-clock: it fires even if no message ever arrives. Bids for other
// orders, duplicates and malformed payloads are dropped with a logged
// reason.
func (c *Coordinator) collect(ctx context.Context, orderID string, bids <-chan channel.Message) []model.Candidature {
	window := time.Duration(c.cfg.CollectWindowSeconds) * time.Second
	c.log.Infof("collecting candidatures for %s (%s window)", orderID, window)
	pool := newBidPool(orderID)
	deadline := time.NewTimer(window)
	defer deadline.Stop()
	for {
		select {
		case <-deadline.C:
			return pool.all()
		case <-ctx.Done():
			return pool.all()
		case msg, ok := <-bids:
			if !ok {
				return pool.all()
			}
			cand, err := model.DecodeCandidature(msg.Payload)
			if err != nil {
				candidaturesTotal.WithLabelValues("malformed").Inc()
				c.log.Warnf("dropping candidature: %v", err)
				continue
			}
			if cand.SubmittedAt.IsZero() {
				cand.SubmittedAt = c.now()
			}
			if err := pool.add(cand); err != nil {
				switch {
				case errors.Is(err, ErrStaleCandidature):
					candidaturesTotal.WithLabelValues("stale").Inc()
					c.log.Debugf("ignoring candidature: %v", err)
				case errors.Is(err, ErrDuplicateCandidature):
					candidaturesTotal.WithLabelValues("duplicate").Inc()
					c.log.Warnf("ignoring candidature: %v", err)
				}
				continue
			}
			candidaturesTotal.WithLabelValues("accepted").Inc()
			c.log.Infof("candidature for %s from %s, eta %d min", orderID, cand.CourierID, cand.ETAMinutes)
		}
	}
}

// Assign advances the order to assigned, publishes the assignment and
// records the completed order in the ledger. Assigning an already-assigned
// order is a no-op.
func (c *Coordinator) Assign(ctx context.Context, order model.DeliveryOrder, asg model.Assignment, bidCount int) error {
	if _, done := c.assigned[order.ID]; done {
		c.log.Debugf("order %s already assigned, skipping", order.ID)
		return nil
	}
	if !order.Status.CanAdvanceTo(model.OrderAssigned) {
		return fmt.Errorf("order %s: cannot assign from status %s", order.ID, order.Status)
	}
	c.assigned[order.ID] = struct{}{}

	if err := c.store.MarkAssigned(ctx, order.ID, asg); err != nil {
		return fmt.Errorf("mark %s assigned: %w", order.ID, err)
	}
	payload, _ := json.Marshal(asg)
	if err := c.ch.Publish(ctx, c.topics.Assignments, payload); err != nil {
		publishFailure.Inc()
		return fmt.Errorf("publish assignment for %s: %w", order.ID, err)
	}
	c.log.Infof("assigned %s to %s (eta %d min)", order.ID, asg.CourierID, asg.ETAMinutes)

	if err := c.store.MarkCompleted(ctx, order.ID); err != nil {
		return fmt.Errorf("mark %s completed: %w", order.ID, err)
	}
	c.ledger.Record(asg.CourierID, order.RestaurantRef, order.RewardEUR)

	if err := c.sink.RecordAssignment(metrics.AssignmentEvent{
		OrderID:    order.ID,
		CourierID:  asg.CourierID,
		ETAMinutes: asg.ETAMinutes,
		RewardEUR:  order.RewardEUR,
		Bids:       bidCount,
		Fallback:   bidCount == 0,
		Time:       c.now(),
	}); err != nil {
		c.log.Errorf("metrics sink: %v", err)
	}
	return nil
}
