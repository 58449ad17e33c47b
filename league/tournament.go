/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package league keeps tournament records and drives the swiss engine on
// their behalf: roster changes, round generation, result entry and the text
// reports a tournament director prints.
package league

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mikeb26/boylstonchessclub-swiss/internal"
	"github.com/mikeb26/boylstonchessclub-swiss/swiss"
	"github.com/rotisserie/eris"
)

// Entry is a registered player.
type Entry struct {
	swiss.Player
	Section string `json:"section,omitempty"`
	Club    string `json:"club,omitempty"`
	// Withdrawn players are not paired; their games still count.
	Withdrawn bool `json:"withdrawn,omitempty"`
}

type Round struct {
	Number    int
	CreatedAt time.Time
	Matches   []swiss.Match
}

// Complete reports whether every board of the round has a result.
func (r *Round) Complete() bool {
	for _, m := range r.Matches {
		if !m.Finished() {
			return false
		}
	}
	return true
}

// Match returns the board at table, or nil.
func (r *Round) Match(table int) *swiss.Match {
	for idx := range r.Matches {
		if r.Matches[idx].Table == table {
			return &r.Matches[idx]
		}
	}
	return nil
}

type jsonBoard struct {
	Table  int            `json:"table"`
	White  swiss.PlayerID `json:"white"`
	Black  swiss.PlayerID `json:"black,omitempty"`
	Result string         `json:"result"`
}

type jsonRound struct {
	Number    int         `json:"number"`
	CreatedAt string      `json:"createdAt,omitempty"`
	Boards    []jsonBoard `json:"boards"`
}

func (r Round) MarshalJSON() ([]byte, error) {
	aux := jsonRound{
		Number:    r.Number,
		CreatedAt: internal.FormatDate(r.CreatedAt),
		Boards:    make([]jsonBoard, 0, len(r.Matches)),
	}
	for _, m := range r.Matches {
		aux.Boards = append(aux.Boards, jsonBoard{
			Table:  m.Table,
			White:  m.Player1,
			Black:  m.Player2,
			Result: ResultString(m.Outcome),
		})
	}
	return json.Marshal(aux)
}

// UnmarshalJSON accepts loosely formatted timestamps and any result notation
// ParseResult understands, so hand-edited snapshots load cleanly.
func (r *Round) UnmarshalJSON(data []byte) error {
	var aux jsonRound
	if err := json.Unmarshal(data, &aux); err != nil {
		return eris.Wrap(err, "round unmarshal")
	}
	createdAt, err := internal.ParseDateOrZero(aux.CreatedAt)
	if err != nil {
		return eris.Wrapf(err, "round %d: parsing createdAt", aux.Number)
	}

	r.Number = aux.Number
	r.CreatedAt = createdAt
	r.Matches = make([]swiss.Match, 0, len(aux.Boards))
	for _, b := range aux.Boards {
		outcome, err := ParseResult(b.Result)
		if err != nil {
			return eris.Wrapf(err, "round %d table %d", aux.Number, b.Table)
		}
		r.Matches = append(r.Matches, swiss.Match{
			Round:   aux.Number,
			Table:   b.Table,
			Player1: b.White,
			Player2: b.Black,
			Outcome: outcome,
		})
	}
	return nil
}

type Tournament struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PairingMode string    `json:"pairingMode,omitempty"`
	Players     []Entry   `json:"players"`
	Rounds      []Round   `json:"rounds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// History flattens every round into engine match records.
func (t *Tournament) History() []swiss.Match {
	var ret []swiss.Match
	for _, r := range t.Rounds {
		ret = append(ret, r.Matches...)
	}
	return ret
}

func (t *Tournament) Entry(id swiss.PlayerID) *Entry {
	for idx := range t.Players {
		if t.Players[idx].ID == id {
			return &t.Players[idx]
		}
	}
	return nil
}

// PlayerName returns the display name for id, or "#id" for unknown ids.
func (t *Tournament) PlayerName(id swiss.PlayerID) string {
	if e := t.Entry(id); e != nil && e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("#%d", id)
}

func (t *Tournament) Round(number int) *Round {
	for idx := range t.Rounds {
		if t.Rounds[idx].Number == number {
			return &t.Rounds[idx]
		}
	}
	return nil
}

func (t *Tournament) LastRound() *Round {
	if len(t.Rounds) == 0 {
		return nil
	}
	return &t.Rounds[len(t.Rounds)-1]
}

// Sections lists the distinct sections in display order.
func (t *Tournament) Sections() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, p := range t.Players {
		if !seen[p.Section] {
			seen[p.Section] = true
			ret = append(ret, p.Section)
		}
	}
	sort.Sort(SectionSorter(ret))
	return ret
}

// roster returns the players of section; eligibleOnly drops withdrawals.
func (t *Tournament) roster(section string, eligibleOnly bool) []swiss.Player {
	var ret []swiss.Player
	for _, p := range t.Players {
		if p.Section != section || (eligibleOnly && p.Withdrawn) {
			continue
		}
		ret = append(ret, p.Player)
	}
	return ret
}

func (t *Tournament) nextPlayerID() swiss.PlayerID {
	var last swiss.PlayerID
	for _, p := range t.Players {
		if p.ID > last {
			last = p.ID
		}
	}
	for _, m := range t.History() {
		if m.Player1 > last {
			last = m.Player1
		}
		if m.Player2 > last {
			last = m.Player2
		}
	}
	return last + 1
}

func (t *Tournament) hasGames(id swiss.PlayerID) bool {
	for _, m := range t.History() {
		if m.Involves(id) {
			return true
		}
	}
	return false
}

// scoresBefore returns each player's score entering round number.
func (t *Tournament) scoresBefore(number int) *swiss.Ledger {
	var history []swiss.Match
	for _, r := range t.Rounds {
		if r.Number < number {
			history = append(history, r.Matches...)
		}
	}
	return swiss.NewLedger(history)
}
