/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"strings"

	"github.com/mikeb26/boylstonchessclub-swiss/swiss"
	"github.com/rotisserie/eris"
)

var resultAliases = map[string]swiss.Outcome{
	"":         swiss.Unplayed,
	"*":        swiss.Unplayed,
	"-":        swiss.Unplayed,
	"unplayed": swiss.Unplayed,

	"1-0":         swiss.Player1Win,
	"1:0":         swiss.Player1Win,
	"white":       swiss.Player1Win,
	"player1":     swiss.Player1Win,
	"player1-win": swiss.Player1Win,

	"0-1":         swiss.Player2Win,
	"0:1":         swiss.Player2Win,
	"black":       swiss.Player2Win,
	"player2":     swiss.Player2Win,
	"player2-win": swiss.Player2Win,

	"½-½":     swiss.Draw,
	"½:½":     swiss.Draw,
	"0.5-0.5": swiss.Draw,
	"1/2-1/2": swiss.Draw,
	"=":       swiss.Draw,
	"draw":    swiss.Draw,

	"bye": swiss.Bye,
}

// ParseResult normalizes result notation into an outcome. Matching is case
// and whitespace insensitive.
func ParseResult(s string) (swiss.Outcome, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if o, ok := resultAliases[key]; ok {
		return o, nil
	}
	return swiss.Unplayed, eris.Wrapf(ErrInvalidResult, "%q", s)
}

// ResultString renders an outcome in score notation.
func ResultString(o swiss.Outcome) string {
	switch o {
	case swiss.Player1Win:
		return "1-0"
	case swiss.Player2Win:
		return "0-1"
	case swiss.Draw:
		return "½-½"
	case swiss.Bye:
		return "BYE"
	default:
		return "*"
	}
}
