package draw

import (
	"errors"

	"raffleland/internal/models"
)

// Policy controls whether a drawn participant stays in the pool for the next
// prize.
type Policy string

const (
	// PolicyWithReplacement keeps the pool untouched between prizes; the same
	// account can win several prizes.
	PolicyWithReplacement Policy = "with_replacement"
	// PolicyWithoutReplacement removes each winner from the pool. When the
	// pool runs out before the prizes do, pairing stops there.
	PolicyWithoutReplacement Policy = "without_replacement"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyWithReplacement, PolicyWithoutReplacement:
		return Policy(s), nil
	}
	return "", errors.New("draw: unknown policy " + s)
}

// Pairing is one (winner, prize) pair; Place is the prize's index in the
// raffle's prize list.
type Pairing struct {
	Place   int
	Account string
	Prize   models.Prize
}

// Pair walks the prize list in order and selects one winner per prize from the
// pool. The pool must be in insertion order; given the same source output the
// same pairing is produced.
func Pair(pool []string, prizes []models.Prize, src Source, policy Policy) ([]Pairing, error) {
	if src == nil {
		return nil, errors.New("draw: nil source")
	}
	if len(pool) == 0 {
		return nil, errors.New("draw: empty pool")
	}

	remaining := pool
	if policy == PolicyWithoutReplacement {
		remaining = append([]string(nil), pool...)
	}

	out := make([]Pairing, 0, len(prizes))
	for place, prize := range prizes {
		if len(remaining) == 0 {
			break
		}
		idx := src.Intn(len(remaining))
		out = append(out, Pairing{Place: place, Account: remaining[idx], Prize: prize})
		if policy == PolicyWithoutReplacement {
			remaining = append(remaining[:idx], remaining[idx+1:]...)
		}
	}
	return out, nil
}
