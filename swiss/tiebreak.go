/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

type Tiebreaks struct {
	Buchholz        float64
	SonnebornBerger float64
}

// ComputeTiebreaks returns Buchholz and Sonneborn-Berger for every player
// that appears in history. Players absent from the result have zero for both.
func ComputeTiebreaks(ledger *Ledger, graph *OpponentGraph,
	history []Match) map[PlayerID]Tiebreaks {

	ret := make(map[PlayerID]Tiebreaks)

	for id, opps := range graph.edges {
		tb := ret[id]
		for opp := range opps {
			tb.Buchholz += ledger.Score(opp)
		}
		ret[id] = tb
	}

	for _, m := range history {
		if m.IsBye() || !m.Finished() {
			continue
		}
		switch m.Outcome {
		case Player1Win:
			addSB(ret, m.Player1, ledger.Score(m.Player2))
		case Player2Win:
			addSB(ret, m.Player2, ledger.Score(m.Player1))
		case Draw:
			addSB(ret, m.Player1, ledger.Score(m.Player2)/2)
			addSB(ret, m.Player2, ledger.Score(m.Player1)/2)
		}
	}

	return ret
}

func addSB(tbs map[PlayerID]Tiebreaks, id PlayerID, amount float64) {
	tb := tbs[id]
	tb.SonnebornBerger += amount
	tbs[id] = tb
}
