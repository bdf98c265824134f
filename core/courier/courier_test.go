package courier

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
	infralogger "github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
	"github.com/Guen0x/Redis-mongo-ubereat/infra/memchan"
)

func runAgent(t *testing.T, ctx context.Context, ch *memchan.Channel, cfg Config, policy AcceptPolicy) *Agent {
	t.Helper()
	var topics channel.Topics
	topics.SetDefaults()
	agent, err := New(cfg, ch, topics, policy, infralogger.NopLogger{}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	go func() { _ = agent.Run(ctx) }()
	time.Sleep(50 * time.Millisecond) // let Run subscribe
	return agent
}

func publishAnnouncement(t *testing.T, ctx context.Context, ch *memchan.Channel, orderID string) {
	t.Helper()
	payload, _ := json.Marshal(model.Announcement{OrderID: orderID, Pickup: "Chez Momo (Lyon)", RewardEUR: 5})
	require.NoError(t, ch.Publish(ctx, "annonces", payload))
}

func TestAgentBidsOnAnnouncement(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch := memchan.New()
	defer ch.Close()

	bids, err := ch.Subscribe(ctx, "candidatures")
	require.NoError(t, err)

	runAgent(t, ctx, ch, Config{ID: "courier-a", MinETAMinutes: 4, MaxETAMinutes: 12, AutoAccept: true}, nil)
	publishAnnouncement(t, ctx, ch, "order-1")

	select {
	case msg := <-bids:
		cand, err := model.DecodeCandidature(msg.Payload)
		require.NoError(t, err)
		require.Equal(t, "order-1", cand.OrderID)
		require.Equal(t, "courier-a", cand.CourierID)
		require.GreaterOrEqual(t, cand.ETAMinutes, 4)
		require.LessOrEqual(t, cand.ETAMinutes, 12)
		require.False(t, cand.SubmittedAt.IsZero())
	case <-ctx.Done():
		t.Fatal("no candidature published")
	}
}

func TestAgentReceivesOwnAssignmentsOnly(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch := memchan.New()
	defer ch.Close()

	agent := runAgent(t, ctx, ch, Config{ID: "courier-a"}, nil)

	other, _ := json.Marshal(model.Assignment{OrderID: "order-1", CourierID: "courier-b", ETAMinutes: 6})
	require.NoError(t, ch.Publish(ctx, "affectations", other))
	mine, _ := json.Marshal(model.Assignment{OrderID: "order-2", CourierID: "courier-a", ETAMinutes: 7})
	require.NoError(t, ch.Publish(ctx, "affectations", mine))

	select {
	case asg := <-agent.Assigned:
		require.Equal(t, "order-2", asg.OrderID, "the other courier's assignment must be filtered out")
		require.Equal(t, 7, asg.ETAMinutes)
	case <-ctx.Done():
		t.Fatal("no assignment received")
	}
	select {
	case asg := <-agent.Assigned:
		t.Fatalf("unexpected second assignment: %+v", asg)
	case <-time.After(100 * time.Millisecond):
	}
}

// blockingPolicy stalls on the first announcement until released, like an
// operator sitting on the prompt.
type blockingPolicy struct{ release chan struct{} }

func (p *blockingPolicy) Accept(model.Announcement) bool {
	<-p.release
	return false
}

func TestPendingPromptDoesNotBlockAssignments(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch := memchan.New()
	defer ch.Close()

	policy := &blockingPolicy{release: make(chan struct{})}
	defer close(policy.release)
	agent := runAgent(t, ctx, ch, Config{ID: "courier-a"}, policy)

	publishAnnouncement(t, ctx, ch, "order-1")
	time.Sleep(50 * time.Millisecond) // the accept loop is now stalled in the policy

	mine, _ := json.Marshal(model.Assignment{OrderID: "order-1", CourierID: "courier-a", ETAMinutes: 6})
	require.NoError(t, ch.Publish(ctx, "affectations", mine))

	select {
	case asg := <-agent.Assigned:
		require.Equal(t, "order-1", asg.OrderID)
	case <-ctx.Done():
		t.Fatal("assignment blocked behind the pending prompt")
	}
}

func TestPromptAcceptAnswers(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"o\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false}, // closed stdin declines
	}
	for _, c := range cases {
		p := &PromptAccept{In: strings.NewReader(c.answer), Out: &strings.Builder{}}
		if got := p.Accept(model.Announcement{OrderID: "order-1"}); got != c.want {
			t.Errorf("answer %q: Accept = %v, want %v", strings.TrimSpace(c.answer), got, c.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{ID: "c", MinETAMinutes: 0, MaxETAMinutes: 5, AcceptProbability: 1},
		{ID: "c", MinETAMinutes: 9, MaxETAMinutes: 5, AcceptProbability: 1},
		{ID: "c", MinETAMinutes: 4, MaxETAMinutes: 12, AcceptProbability: 1.5},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d accepted: %+v", i, cfg)
		}
	}

	var cfg Config
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
	if !strings.HasPrefix(cfg.ID, "courier-") {
		t.Fatalf("generated id = %q", cfg.ID)
	}
}
