/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"sort"

	"github.com/rotisserie/eris"
)

func validatePlayers(players []Player) error {
	seen := make(map[PlayerID]bool, len(players))
	for _, p := range players {
		if p.ID <= NoPlayer {
			return eris.Wrapf(ErrInvalidHistory, "player %q has invalid id %d",
				p.Name, p.ID)
		}
		if seen[p.ID] {
			return eris.Wrapf(ErrInvalidHistory, "duplicate player id %d", p.ID)
		}
		if p.ByeCount < 0 {
			return eris.Wrapf(ErrInvalidHistory, "player %d has negative bye count",
				p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// validateHistory checks the structural invariants of match records: one
// seat per player per round, well formed byes and contiguous round numbers.
func validateHistory(history []Match) error {
	seated := make(map[int]map[PlayerID]bool)
	for _, m := range history {
		if m.Round < 1 {
			return eris.Wrapf(ErrInvalidHistory, "match with round number %d",
				m.Round)
		}
		if _, ok := outcomeNames[m.Outcome]; !ok {
			return eris.Wrapf(ErrInvalidHistory, "round %d table %d: unknown outcome %d",
				m.Round, m.Table, int(m.Outcome))
		}
		if m.Player1 <= NoPlayer || m.Player2 < NoPlayer {
			return eris.Wrapf(ErrInvalidHistory, "round %d table %d: invalid player id",
				m.Round, m.Table)
		}
		if m.Player1 == m.Player2 {
			return eris.Wrapf(ErrInvalidHistory, "round %d table %d: player %d paired with self",
				m.Round, m.Table, m.Player1)
		}
		if m.IsBye() != (m.Outcome == Bye) {
			return eris.Wrapf(ErrInvalidHistory, "round %d table %d: bye must have one player and outcome bye",
				m.Round, m.Table)
		}

		round, ok := seated[m.Round]
		if !ok {
			round = make(map[PlayerID]bool)
			seated[m.Round] = round
		}
		for _, id := range []PlayerID{m.Player1, m.Player2} {
			if id == NoPlayer {
				continue
			}
			if round[id] {
				return eris.Wrapf(ErrInvalidHistory, "player %d seated twice in round %d",
					id, m.Round)
			}
			round[id] = true
		}
	}

	numbers := make([]int, 0, len(seated))
	for n := range seated {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for i, n := range numbers {
		if n != i+1 {
			return eris.Wrapf(ErrRoundOutOfSequence, "round %d recorded without round %d",
				n, i+1)
		}
	}

	return nil
}
