package memchan

import (
	"context"
	"testing"
	"time"

	"github.com/Guen0x/Redis-mongo-ubereat/core/channel"
)

func recv(t *testing.T, ch <-chan channel.Message) channel.Message {
	t.Helper()
	select {
	case m, ok := <-ch:
		if !ok {
			t.Fatal("stream closed")
		}
		return m
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return channel.Message{}
}

func TestPublishSubscribe(t *testing.T) {
	ch := New()
	defer ch.Close()
	ctx := context.Background()

	sub, err := ch.Subscribe(ctx, "annonces")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := ch.Publish(ctx, "annonces", []byte("job")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	msg := recv(t, sub)
	if msg.Topic != "annonces" || string(msg.Payload) != "job" {
		t.Fatalf("got %+v", msg)
	}
}

func TestWatchFilters(t *testing.T) {
	ch := New()
	defer ch.Close()
	ctx := context.Background()

	mine, err := ch.Watch(ctx, "affectations", func(m channel.Message) bool {
		return string(m.Payload) == "keep"
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	_ = ch.Publish(ctx, "affectations", []byte("drop"))
	_ = ch.Publish(ctx, "affectations", []byte("keep"))

	if msg := recv(t, mine); string(msg.Payload) != "keep" {
		t.Fatalf("predicate let %q through", msg.Payload)
	}
}

func TestContextCancelClosesStream(t *testing.T) {
	ch := New()
	defer ch.Close()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := ch.Subscribe(ctx, "annonces")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-sub:
		if ok {
			t.Fatal("received a message on a cancelled stream")
		}
	case <-time.After(time.Second):
		t.Fatal("stream not closed after cancel")
	}
}

func TestCloseClosesStreams(t *testing.T) {
	ch := New()
	sub, err := ch.Subscribe(context.Background(), "annonces")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case _, ok := <-sub:
		if ok {
			t.Fatal("received a message after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("stream not closed after Close")
	}
}
