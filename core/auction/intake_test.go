package auction

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

func validRequest(id string) model.OrderRequest {
	return model.OrderRequest{
		ID:            id,
		ClientID:      "client-1",
		RestaurantRef: "restaurant:1",
		Dish:          "Margherita",
	}
}

func TestIntakeAutoApprove(t *testing.T) {
	in := NewIntake(true, 0, nil)
	approved, err := in.Decide(validRequest("req-1"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !approved {
		t.Fatal("auto-approve rejected a valid request")
	}
}

func TestIntakeInvalidRequest(t *testing.T) {
	in := NewIntake(true, 0, nil)
	_, err := in.Decide(model.OrderRequest{ID: "req-1"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestIntakeBernoulliBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	always := NewIntake(false, 1.0, rng)
	for i := 0; i < 50; i++ {
		approved, err := always.Decide(validRequest(string(rune('a' + i))))
		if err != nil || !approved {
			t.Fatalf("probability 1.0 rejected request %d (err %v)", i, err)
		}
	}

	never := NewIntake(false, 0.0, rng)
	for i := 0; i < 50; i++ {
		approved, err := never.Decide(validRequest(string(rune('a' + i))))
		if err != nil || approved {
			t.Fatalf("probability 0.0 approved request %d (err %v)", i, err)
		}
	}
}

func TestIntakeReplayReturnsRecordedOutcome(t *testing.T) {
	in := NewIntake(false, 0.5, rand.New(rand.NewSource(7)))
	req := validRequest("req-replay")
	first, err := in.Decide(req)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := in.Decide(req)
		if err != nil {
			t.Fatalf("replay %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("replay %d flipped the outcome: first %v, now %v", i, first, again)
		}
	}
}
