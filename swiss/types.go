/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package swiss computes standings and next-round pairings for a Swiss-system
// tournament. Every entry point is a pure function of the player list and
// match history supplied by the caller; nothing is cached between calls.
package swiss

import (
	"fmt"

	"github.com/rotisserie/eris"
)

type PlayerID int

// NoPlayer occupies the second seat of a bye match.
const NoPlayer PlayerID = 0

// DefaultRating is assumed for players whose rating is unknown.
const DefaultRating = 1200

type Player struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Rating   int      `json:"rating,omitempty"`
	ByeCount int      `json:"priorByeCount"`
}

// EffectiveRating returns the player's rating, or DefaultRating when unset.
func (p Player) EffectiveRating() int {
	if p.Rating <= 0 {
		return DefaultRating
	}
	return p.Rating
}

type Outcome int

const (
	Unplayed Outcome = iota
	Player1Win
	Player2Win
	Draw
	Bye
)

var outcomeNames = map[Outcome]string{
	Unplayed:   "unplayed",
	Player1Win: "player1-win",
	Player2Win: "player2-win",
	Draw:       "draw",
	Bye:        "bye",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText emits the canonical outcome name.
func (o Outcome) MarshalText() ([]byte, error) {
	name, ok := outcomeNames[o]
	if !ok {
		return nil, eris.Errorf("unknown outcome %d", int(o))
	}
	return []byte(name), nil
}

// UnmarshalText accepts only canonical outcome names. Free-form result
// strings are normalized before they reach this package.
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, v := range outcomeNames {
		if v == string(text) {
			*o = k
			return nil
		}
	}
	return eris.Errorf("unknown outcome %q", string(text))
}

// Match is one board of one round. Player1 has the white pieces and Player2
// black; a bye has Player2 == NoPlayer and Outcome == Bye. The JSON form is
// the engine's exchange format for history; outcomes use their canonical
// names.
type Match struct {
	Round   int      `json:"round"`
	Table   int      `json:"table"`
	Player1 PlayerID `json:"player1Id"`
	Player2 PlayerID `json:"player2Id,omitempty"`
	Outcome Outcome  `json:"outcome"`
}

func (m Match) IsBye() bool {
	return m.Player2 == NoPlayer
}

// Finished reports whether the match has a recorded result.
func (m Match) Finished() bool {
	return m.Outcome != Unplayed
}

// Involves reports whether id sits at this board.
func (m Match) Involves(id PlayerID) bool {
	return id != NoPlayer && (m.Player1 == id || m.Player2 == id)
}
