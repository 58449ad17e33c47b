/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "github.com/rotisserie/eris"

var (
	ErrInsufficientPlayers = eris.New("fewer than 2 eligible players")
	ErrRoundAlreadyExists  = eris.New("round already exists")
	ErrIncompleteRound     = eris.New("previous round has unplayed matches")
	ErrRoundOutOfSequence  = eris.New("round numbers must be contiguous")
	ErrPairingInfeasible   = eris.New("no complete pairing found")
	ErrInvalidHistory      = eris.New("invalid match history")
)
