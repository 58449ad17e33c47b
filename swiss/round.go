/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "github.com/rotisserie/eris"

// RoundPlan is a generated round ready to be persisted.
type RoundPlan struct {
	Number int
	Pairings
}

// Matches returns the rows to store for the round: pairs as unplayed, the
// bye already scored.
func (r *RoundPlan) Matches() []Match {
	ret := make([]Match, 0, len(r.Boards))
	for _, b := range r.Boards {
		m := Match{
			Round:   r.Number,
			Table:   b.Number,
			Player1: b.White,
			Player2: b.Black,
			Outcome: Unplayed,
		}
		if b.IsBye() {
			m.Outcome = Bye
		}
		ret = append(ret, m)
	}
	return ret
}

// NextRoundNumber returns one past the highest round in history.
func NextRoundNumber(history []Match) int {
	last := 0
	for _, m := range history {
		if m.Round > last {
			last = m.Round
		}
	}
	return last + 1
}

// CanGenerateRound reports whether the next round may be paired from
// history: it must be well formed and its last round complete.
func CanGenerateRound(history []Match) error {
	if err := validateHistory(history); err != nil {
		return err
	}
	return checkPreviousComplete(history, NextRoundNumber(history))
}

func checkPreviousComplete(history []Match, number int) error {
	unplayed := 0
	for _, m := range history {
		if m.Round == number-1 && !m.Finished() {
			unplayed++
		}
	}
	if unplayed > 0 {
		return eris.Wrapf(ErrIncompleteRound, "round %d has %d unplayed matches",
			number-1, unplayed)
	}
	return nil
}

// GenerateRound pairs round number (0 meaning the next round) for the
// eligible players. Players not listed sit the round out; their past games
// still count toward everyone's scores and tiebreaks.
func GenerateRound(players []Player, history []Match, number int,
	opts Options) (*RoundPlan, error) {

	if err := validatePlayers(players); err != nil {
		return nil, err
	}
	if err := validateHistory(history); err != nil {
		return nil, err
	}

	next := NextRoundNumber(history)
	if number == 0 {
		number = next
	}
	switch {
	case number < 1:
		return nil, eris.Wrapf(ErrRoundOutOfSequence, "round %d", number)
	case number < next:
		return nil, eris.Wrapf(ErrRoundAlreadyExists, "round %d", number)
	case number > next:
		return nil, eris.Wrapf(ErrRoundOutOfSequence,
			"round %d requested; next round is %d", number, next)
	}
	if err := checkPreviousComplete(history, number); err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, eris.Wrapf(ErrInsufficientPlayers, "%d eligible", len(players))
	}

	ledger := NewLedger(history)
	entrants := make([]Entrant, 0, len(players))
	for _, p := range players {
		rec := ledger.Record(p.ID)
		entrants = append(entrants, Entrant{
			ID:           p.ID,
			Rating:       p.EffectiveRating(),
			Score:        rec.Score,
			ColorBalance: rec.ColorBalance(),
			ByeCount:     p.ByeCount,
		})
	}

	pairings, err := Pair(entrants, NewOpponentGraph(history), opts)
	if err != nil {
		return nil, eris.Wrapf(err, "round %d", number)
	}
	opts.logger().Info().Int("round", number).Int("boards", len(pairings.Boards)).
		Int("rematches", pairings.Rematches).Str("mode", opts.Mode.String()).
		Msg("round generated")

	return &RoundPlan{Number: number, Pairings: *pairings}, nil
}
