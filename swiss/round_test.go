/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster() []Player {
	return []Player{
		{ID: 1, Name: "Alpha", Rating: 1800},
		{ID: 2, Name: "Bravo", Rating: 1700},
		{ID: 3, Name: "Charlie", Rating: 1650},
		{ID: 4, Name: "Delta", Rating: 1600},
		{ID: 5, Name: "Echo", Rating: 1550},
		{ID: 6, Name: "Foxtrot", Rating: 1500},
		{ID: 7, Name: "Golf", Rating: 1450},
	}
}

func TestGenerateRoundErrors(t *testing.T) {
	complete := []Match{game(1, 1, 1, 2, Player1Win), game(1, 2, 3, 4, Draw)}
	pending := []Match{game(1, 1, 1, 2, Player1Win), game(1, 2, 3, 4, Unplayed)}

	cases := []struct {
		name    string
		players []Player
		history []Match
		number  int
		want    error
	}{
		{"one player", roster()[:1], nil, 0, ErrInsufficientPlayers},
		{"no players", nil, nil, 1, ErrInsufficientPlayers},
		{"round exists", roster()[:4], complete, 1, ErrRoundAlreadyExists},
		{"previous incomplete", roster()[:4], pending, 2, ErrIncompleteRound},
		{"previous incomplete implicit", roster()[:4], pending, 0, ErrIncompleteRound},
		{"skips a round", roster()[:4], complete, 3, ErrRoundOutOfSequence},
		{"negative round", roster()[:4], complete, -1, ErrRoundOutOfSequence},
		{"bad history", roster()[:4],
			[]Match{game(1, 1, 1, 2, Draw), game(1, 2, 2, 3, Draw)}, 0, ErrInvalidHistory},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan, err := GenerateRound(c.players, c.history, c.number, Options{})
			assert.Nil(t, plan)
			require.Error(t, err)
			assert.True(t, eris.Is(err, c.want), "got %v", err)
		})
	}
}

func TestGenerateFirstRound(t *testing.T) {
	plan, err := GenerateRound(roster(), nil, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Number)
	require.NotNil(t, plan.Bye)
	// everyone is on zero with no byes so the lowest rated sits out
	assert.Equal(t, ByeAward{Player: 7, ByeCount: 1}, *plan.Bye)

	assert.Equal(t, []Match{
		game(1, 1, 1, 2, Unplayed),
		game(1, 2, 3, 4, Unplayed),
		game(1, 3, 5, 6, Unplayed),
		bye(1, 4, 7),
	}, plan.Matches())
}

func TestCanGenerateRound(t *testing.T) {
	assert.NoError(t, CanGenerateRound(nil))
	assert.NoError(t, CanGenerateRound([]Match{game(1, 1, 1, 2, Draw)}))

	err := CanGenerateRound([]Match{game(1, 1, 1, 2, Unplayed)})
	assert.True(t, eris.Is(err, ErrIncompleteRound))

	assert.Equal(t, 1, NextRoundNumber(nil))
	assert.Equal(t, 3, NextRoundNumber([]Match{game(2, 1, 1, 2, Draw),
		game(1, 1, 1, 2, Draw)}))
}

// TestTournamentSimulation plays a short event where the higher rated
// player always wins and checks the round-to-round bookkeeping.
func TestTournamentSimulation(t *testing.T) {
	for _, mode := range []Mode{ModeGreedy, ModeStrict} {
		t.Run(mode.String(), func(t *testing.T) {
			players := roster()
			ratings := make(map[PlayerID]int)
			for _, p := range players {
				ratings[p.ID] = p.Rating
			}
			var history []Match
			byes := make(map[PlayerID]bool)

			for round := 1; round <= 5; round++ {
				plan, err := GenerateRound(players, history, 0, Options{Mode: mode})
				require.NoError(t, err, "round %d", round)
				require.Equal(t, round, plan.Number)

				require.NotNil(t, plan.Bye)
				require.False(t, byes[plan.Bye.Player], "second bye for %d", plan.Bye.Player)
				byes[plan.Bye.Player] = true
				for idx := range players {
					if players[idx].ID == plan.Bye.Player {
						players[idx].ByeCount = plan.Bye.ByeCount
					}
				}

				for _, m := range plan.Matches() {
					if !m.IsBye() {
						if ratings[m.Player1] > ratings[m.Player2] {
							m.Outcome = Player1Win
						} else {
							m.Outcome = Player2Win
						}
					}
					history = append(history, m)
				}
				require.NoError(t, CanGenerateRound(history))
			}

			standings, err := ComputeStandings(players, history)
			require.NoError(t, err)
			assert.Equal(t, 5.0, standings[0].Score)
			for _, s := range standings {
				if s.Player.ID == 1 {
					assert.Equal(t, 5.0, s.Score, "top seed wins every game")
					assert.Equal(t, 0, s.Byes)
				}
			}

			total := 0.0
			for _, s := range standings {
				total += s.Score
			}
			// three decisive games and one bye per round
			assert.Equal(t, 20.0, total)
		})
	}
}
