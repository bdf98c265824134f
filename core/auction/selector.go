package auction

import "github.com/Guen0x/Redis-mongo-ubereat/core/model"

// SelectWinner picks the best candidature: minimum ETA, ties broken by the
// earliest submission time, remaining ties by pool order. It is pure: the
// pool is not modified. An empty pool returns ErrNoCandidates.
func SelectWinner(pool []model.Candidature) (model.Candidature, error) {
	if len(pool) == 0 {
		return model.Candidature{}, ErrNoCandidates
	}
	best := pool[0]
	for _, c := range pool[1:] {
		if c.ETAMinutes < best.ETAMinutes ||
			(c.ETAMinutes == best.ETAMinutes && c.SubmittedAt.Before(best.SubmittedAt)) {
			best = c
		}
	}
	return best, nil
}
