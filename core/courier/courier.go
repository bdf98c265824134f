// Package courier implements the courier-side agent: it watches job
// announcements, submits candidatures with an ETA estimate and listens for
// its own assignment notifications.
package courier

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/logger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// Config drives one courier process.
type Config struct {
	ID string `json:"id"`
	// MinETAMinutes and MaxETAMinutes bound the placeholder ETA draw.
	MinETAMinutes int `json:"min_eta_minutes"`
	MaxETAMinutes int `json:"max_eta_minutes"`
	// QueueSize bounds the announcement buffer between the ingest loop
	// and the accept/reject loop. A full buffer drops announcements, it
	// never blocks assignment intake.
	QueueSize int `json:"queue_size"`
	// AutoAccept bids on every announcement without prompting, with
	// AcceptProbability of accepting each one.
	AutoAccept        bool    `json:"auto_accept"`
	AcceptProbability float64 `json:"accept_probability"`
}

// SetDefaults applies the reference defaults.
func (c *Config) SetDefaults() {
	if c.ID == "" {
		u := uuid.New()
		c.ID = fmt.Sprintf("courier-%x", u[:3])
	}
	if c.MinETAMinutes == 0 {
		c.MinETAMinutes = 4
	}
	if c.MaxETAMinutes == 0 {
		c.MaxETAMinutes = 12
	}
	if c.QueueSize == 0 {
		c.QueueSize = 16
	}
	if c.AcceptProbability == 0 {
		c.AcceptProbability = 1
	}
}

// Validate checks the ETA bounds.
func (c Config) Validate() error {
	if c.MinETAMinutes <= 0 || c.MaxETAMinutes < c.MinETAMinutes {
		return fmt.Errorf("courier: bad eta bounds [%d,%d]", c.MinETAMinutes, c.MaxETAMinutes)
	}
	if c.AcceptProbability < 0 || c.AcceptProbability > 1 {
		return fmt.Errorf("courier: accept_probability must be in [0,1], got %v", c.AcceptProbability)
	}
	return nil
}

// AcceptPolicy decides whether the courier bids on an announcement.
type AcceptPolicy interface {
	Accept(a model.Announcement) bool
}

// AutoAccept accepts each announcement with a fixed probability.
type AutoAccept struct {
	Probability float64
	Rng         *rand.Rand
}

func (p AutoAccept) Accept(model.Announcement) bool {
	if p.Rng == nil {
		return true
	}
	return p.Rng.Float64() < p.Probability
}

// PromptAccept asks the operator on the terminal. A pending prompt only
// stalls this loop; assignment notifications keep flowing.
type PromptAccept struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func (p *PromptAccept) Accept(a model.Announcement) bool {
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	fmt.Fprintf(p.Out, "\nNew delivery %s:\n  pickup : %s\n  dropoff: %s\n  reward : %.2f €\nAccept? [y/n] ", a.OrderID, a.Pickup, a.Dropoff, a.RewardEUR)
	if !p.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(p.scanner.Text()))
	return answer == "y" || answer == "o" || answer == "yes"
}

// Agent is one courier process.
type Agent struct {
	cfg    Config
	ch     channel.Channel
	topics channel.Topics
	policy AcceptPolicy
	log    logger.Logger
	rng    *rand.Rand
	now    func() time.Time

	// Assigned receives this courier's assignments, for tests and display.
	Assigned chan model.Assignment
}

// New creates an Agent. A nil policy defaults to AutoAccept with the
// configured probability.
func New(cfg Config, ch channel.Channel, topics channel.Topics, policy AcceptPolicy, log logger.Logger, rng *rand.Rand) (*Agent, error) {
	if ch == nil || log == nil {
		return nil, fmt.Errorf("courier: nil parameter provided to New")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if policy == nil {
		policy = AutoAccept{Probability: cfg.AcceptProbability, Rng: rng}
	}
	topics.SetDefaults()
	return &Agent{
		cfg:      cfg,
		ch:       ch,
		topics:   topics,
		policy:   policy,
		log:      log,
		rng:      rng,
		now:      time.Now,
		Assigned: make(chan model.Assignment, 8),
	}, nil
}

// Run listens until ctx is done. Two loops run concurrently: one ingests
// announcements into a bounded buffer drained by the accept/reject loop,
// and an independent one watches this courier's own assignments.
func (a *Agent) Run(ctx context.Context) error {
	announcements, err := a.ch.Subscribe(ctx, a.topics.Announcements)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", a.topics.Announcements, err)
	}
	own, err := a.ch.Watch(ctx, a.topics.Assignments, a.isMine)
	if err != nil {
		return fmt.Errorf("watch %s: %w", a.topics.Assignments, err)
	}

	queue := make(chan model.Announcement, a.cfg.QueueSize)
	go a.ingest(announcements, queue)
	go a.watchAssignments(ctx, own)

	a.log.Infof("courier %s waiting for announcements on %q", a.cfg.ID, a.topics.Announcements)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ann, ok := <-queue:
			if !ok {
				return nil
			}
			if !a.policy.Accept(ann) {
				a.log.Infof("declined %s", ann.OrderID)
				continue
			}
			if err := a.bid(ctx, ann); err != nil {
				a.log.Errorf("bid on %s: %v", ann.OrderID, err)
			}
		}
	}
}

func (a *Agent) isMine(m channel.Message) bool {
	asg, err := model.DecodeAssignment(m.Payload)
	return err == nil && asg.CourierID == a.cfg.ID
}

func (a *Agent) ingest(in <-chan channel.Message, queue chan<- model.Announcement) {
	defer close(queue)
	for msg := range in {
		ann, err := model.DecodeAnnouncement(msg.Payload)
		if err != nil {
			a.log.Warnf("dropping announcement: %v", err)
			continue
		}
		select {
		case queue <- ann:
		default:
			a.log.Warnf("announcement buffer full, dropping %s", ann.OrderID)
		}
	}
}

func (a *Agent) watchAssignments(ctx context.Context, own <-chan channel.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-own:
			if !ok {
				return
			}
			asg, err := model.DecodeAssignment(msg.Payload)
			if err != nil {
				a.log.Warnf("dropping assignment: %v", err)
				continue
			}
			a.log.Infof("assigned to %s (eta %d min)", asg.OrderID, asg.ETAMinutes)
			select {
			case a.Assigned <- asg:
			default:
			}
		}
	}
}

func (a *Agent) bid(ctx context.Context, ann model.Announcement) error {
	eta := a.cfg.MinETAMinutes + a.rng.Intn(a.cfg.MaxETAMinutes-a.cfg.MinETAMinutes+1)
	cand := model.Candidature{
		OrderID:     ann.OrderID,
		CourierID:   a.cfg.ID,
		ETAMinutes:  eta,
		SubmittedAt: a.now(),
	}
	payload, _ := json.Marshal(cand)
	if err := a.ch.Publish(ctx, a.topics.Candidatures, payload); err != nil {
		return err
	}
	a.log.Infof("candidature sent for %s, eta %d min", ann.OrderID, eta)
	return nil
}
