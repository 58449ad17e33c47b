/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "sort"

type Standing struct {
	Rank            int
	Player          Player
	Score           float64
	Buchholz        float64
	SonnebornBerger float64
	Wins            int
	Draws           int
	Losses          int
	Byes            int
	GamesPlayed     int
	// WinPercent is score over games played (byes included) as a
	// percentage; 0 before the first result.
	WinPercent float64
}

// Less orders standings: score, Buchholz, Sonneborn-Berger, wins and
// rating descending, then player id ascending.
func Less(a, b Standing) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Buchholz != b.Buchholz {
		return a.Buchholz > b.Buchholz
	}
	if a.SonnebornBerger != b.SonnebornBerger {
		return a.SonnebornBerger > b.SonnebornBerger
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	ra, rb := a.Player.EffectiveRating(), b.Player.EffectiveRating()
	if ra != rb {
		return ra > rb
	}
	return a.Player.ID < b.Player.ID
}

// ComputeStandings ranks players from scratch against the supplied history.
func ComputeStandings(players []Player, history []Match) ([]Standing, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}
	if err := validateHistory(history); err != nil {
		return nil, err
	}

	ledger := NewLedger(history)
	graph := NewOpponentGraph(history)

	return rank(players, ledger, ComputeTiebreaks(ledger, graph, history)), nil
}

func rank(players []Player, ledger *Ledger,
	tbs map[PlayerID]Tiebreaks) []Standing {

	ret := make([]Standing, 0, len(players))
	for _, p := range players {
		rec := ledger.Record(p.ID)
		tb := tbs[p.ID]
		s := Standing{
			Player:          p,
			Score:           rec.Score,
			Buchholz:        tb.Buchholz,
			SonnebornBerger: tb.SonnebornBerger,
			Wins:            rec.Wins,
			Draws:           rec.Draws,
			Losses:          rec.Losses,
			Byes:            rec.Byes,
			GamesPlayed:     rec.GamesPlayed(),
		}
		if s.GamesPlayed > 0 {
			s.WinPercent = s.Score / float64(s.GamesPlayed) * 100
		}
		ret = append(ret, s)
	}

	sort.Slice(ret, func(i, j int) bool {
		return Less(ret[i], ret[j])
	})
	for idx := range ret {
		ret[idx].Rank = idx + 1
	}

	return ret
}
