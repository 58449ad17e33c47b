/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// Record holds the per-player totals derived from match history.
type Record struct {
	Score  float64
	Wins   int
	Draws  int
	Losses int
	Byes   int
	// White and Black count every paired board regardless of result.
	White int
	Black int
}

// GamesPlayed counts finished games plus byes.
func (r Record) GamesPlayed() int {
	return r.Wins + r.Draws + r.Losses + r.Byes
}

// ColorBalance is white games minus black games.
func (r Record) ColorBalance() int {
	return r.White - r.Black
}

// Ledger derives scores and color counts from the full match history.
type Ledger struct {
	records map[PlayerID]*Record
}

func NewLedger(history []Match) *Ledger {
	l := &Ledger{records: make(map[PlayerID]*Record)}
	for _, m := range history {
		l.add(m)
	}
	return l
}

func (l *Ledger) record(id PlayerID) *Record {
	r, ok := l.records[id]
	if !ok {
		r = &Record{}
		l.records[id] = r
	}
	return r
}

func (l *Ledger) add(m Match) {
	if m.Player1 == NoPlayer {
		return
	}
	p1 := l.record(m.Player1)
	if m.IsBye() {
		if m.Outcome == Bye {
			p1.Score += 1.0
			p1.Byes++
		}
		return
	}

	p2 := l.record(m.Player2)
	p1.White++
	p2.Black++

	switch m.Outcome {
	case Player1Win:
		p1.Score += 1.0
		p1.Wins++
		p2.Losses++
	case Player2Win:
		p2.Score += 1.0
		p2.Wins++
		p1.Losses++
	case Draw:
		p1.Score += 0.5
		p2.Score += 0.5
		p1.Draws++
		p2.Draws++
	}
}

// Score returns the cumulative score for id; 0 for players with no results.
func (l *Ledger) Score(id PlayerID) float64 {
	if r, ok := l.records[id]; ok {
		return r.Score
	}
	return 0.0
}

func (l *Ledger) Record(id PlayerID) Record {
	if r, ok := l.records[id]; ok {
		return *r
	}
	return Record{}
}
