package auction

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// Intake applies the approval policy to incoming order requests. A request
// is decided exactly once: replays of an already-decided id return the
// recorded outcome without a new trial.
type Intake struct {
	autoApprove bool
	probability float64
	rng         *rand.Rand

	mu      sync.Mutex
	decided map[string]bool
}

// NewIntake creates an Intake. A nil rng falls back to a fixed-seed source,
// which only matters when autoApprove is off.
func NewIntake(autoApprove bool, probability float64, rng *rand.Rand) *Intake {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Intake{
		autoApprove: autoApprove,
		probability: probability,
		rng:         rng,
		decided:     make(map[string]bool),
	}
}

// Decide validates the request and applies the approval policy. Invalid
// requests fail with ErrInvalidRequest and count as rejected.
func (i *Intake) Decide(req model.OrderRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if approved, ok := i.decided[req.ID]; ok {
		return approved, nil
	}
	approved := i.autoApprove || i.rng.Float64() < i.probability
	i.decided[req.ID] = approved
	return approved, nil
}
