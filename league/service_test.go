/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mikeb26/boylstonchessclub-swiss/swiss"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = eris.New("missing")

// memRepo keeps tournaments as encoded snapshots so every load returns a
// fresh copy, the way a real store does.
type memRepo struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func newMemRepo() *memRepo {
	return &memRepo{data: make(map[string][]byte)}
}

func (r *memRepo) Load(_ context.Context, id string) (*Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.data[id]
	if !ok {
		return nil, errMissing
	}
	var t Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *memRepo) Save(_ context.Context, t *Tournament) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[t.ID] = data
	r.saves++
	return nil
}

func (r *memRepo) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

var testNow = time.Date(2026, 10, 15, 19, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, mode string) (*Service, *memRepo, string) {
	repo := newMemRepo()
	svc := NewService(repo, swiss.Options{}, zerolog.Nop())
	svc.now = func() time.Time { return testNow }

	tourn, err := svc.Create(context.Background(), " Thursday Swiss ", mode)
	require.NoError(t, err)
	return svc, repo, tourn.ID
}

func addPlayers(t *testing.T, svc *Service, id string, entries ...Entry) {
	for _, e := range entries {
		_, err := svc.AddPlayer(context.Background(), id, e)
		require.NoError(t, err)
	}
}

func entry(name string, rating int, section string) Entry {
	return Entry{Player: swiss.Player{Name: name, Rating: rating}, Section: section}
}

func recordAll(t *testing.T, svc *Service, id string, r *Round, result string) {
	for _, m := range r.Matches {
		if m.IsBye() {
			continue
		}
		require.NoError(t, svc.RecordResult(context.Background(), id, r.Number,
			m.Table, result))
	}
}

func TestCreate(t *testing.T) {
	svc, _, id := newTestService(t, "strict")
	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Thursday Swiss", got.Name)
	assert.Equal(t, "strict", got.PairingMode)
	assert.True(t, testNow.Equal(got.CreatedAt))

	_, err = svc.Create(context.Background(), "bad", "fastest")
	assert.Error(t, err)
}

func TestAddPlayer(t *testing.T) {
	svc, _, id := newTestService(t, "")
	ctx := context.Background()

	_, err := svc.AddPlayer(ctx, id, entry("  ", 1500, ""))
	assert.True(t, eris.Is(err, ErrInvalidEntry))

	first, err := svc.AddPlayer(ctx, id, entry("Alpha", 1800, "Open"))
	require.NoError(t, err)
	assert.Equal(t, swiss.PlayerID(1), first.ID)

	unrated := entry("Bravo", 0, "Open")
	unrated.ByeCount = 3
	second, err := svc.AddPlayer(ctx, id, unrated)
	require.NoError(t, err)
	assert.Equal(t, swiss.PlayerID(2), second.ID)
	assert.Equal(t, swiss.DefaultRating, second.Rating)
	assert.Zero(t, second.ByeCount)
}

func TestRoundLifecycle(t *testing.T) {
	svc, repo, id := newTestService(t, "")
	ctx := context.Background()

	_, err := svc.NextRound(ctx, id)
	assert.True(t, eris.Is(err, swiss.ErrInsufficientPlayers), "got %v", err)

	addPlayers(t, svc, id, entry("Alpha", 1800, ""), entry("Bravo", 1700, ""),
		entry("Charlie", 1650, ""), entry("Delta", 1600, ""), entry("Echo", 1550, ""))

	r1, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Number)
	assert.True(t, testNow.Equal(r1.CreatedAt))
	require.Len(t, r1.Matches, 3)
	bye := r1.Matches[2]
	assert.True(t, bye.IsBye())
	assert.Equal(t, swiss.PlayerID(5), bye.Player1)
	for idx, m := range r1.Matches {
		assert.Equal(t, idx+1, m.Table)
	}

	// the round and the bye count it awarded were saved together
	saves := repo.saves
	tourn, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, tourn.Rounds, 1)
	assert.Equal(t, 1, tourn.Entry(5).ByeCount)

	_, err = svc.NextRound(ctx, id)
	assert.True(t, eris.Is(err, swiss.ErrIncompleteRound), "got %v", err)
	assert.Equal(t, saves, repo.saves)

	err = svc.RecordResult(ctx, id, 1, bye.Table, "1-0")
	assert.True(t, eris.Is(err, ErrInvalidResult))
	err = svc.RecordResult(ctx, id, 1, 1, "bye")
	assert.True(t, eris.Is(err, ErrInvalidResult))
	err = svc.RecordResult(ctx, id, 1, 1, "2-0")
	assert.True(t, eris.Is(err, ErrInvalidResult))
	err = svc.RecordResult(ctx, id, 1, 9, "1-0")
	assert.True(t, eris.Is(err, ErrUnknownBoard))
	err = svc.RecordResult(ctx, id, 4, 1, "1-0")
	assert.True(t, eris.Is(err, ErrUnknownBoard))

	st, err := svc.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &Status{Rounds: 1, Unplayed: 2, NextRound: 2,
		Reason: st.Reason}, st)
	assert.NotEmpty(t, st.Reason)

	recordAll(t, svc, id, r1, "1-0")
	// a blank result never clears a recorded one
	for _, blank := range []string{"", "  "} {
		err = svc.RecordResult(ctx, id, 1, 1, blank)
		assert.True(t, eris.Is(err, ErrInvalidResult), "got %v", err)
	}
	tourn, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, swiss.Player1Win, tourn.Round(1).Match(1).Outcome)

	// a result in the open round may be cleared and re-entered
	require.NoError(t, svc.RecordResult(ctx, id, 1, 1, "*"))
	require.NoError(t, svc.RecordResult(ctx, id, 1, 1, "½-½"))

	st, err = svc.Status(ctx, id)
	require.NoError(t, err)
	assert.True(t, st.CanGenerate)
	assert.Zero(t, st.Unplayed)

	r2, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, r2.Number)
	for _, m := range r2.Matches {
		if m.IsBye() {
			assert.NotEqual(t, swiss.PlayerID(5), m.Player1)
		}
	}

	err = svc.RecordResult(ctx, id, 1, 1, "*")
	assert.True(t, eris.Is(err, ErrRoundClosed))
	// corrections to a closed round are still allowed
	require.NoError(t, svc.RecordResult(ctx, id, 1, 1, "0-1"))
}

func TestRosterChanges(t *testing.T) {
	svc, _, id := newTestService(t, "")
	ctx := context.Background()
	addPlayers(t, svc, id, entry("Alpha", 1800, ""), entry("Bravo", 1700, ""),
		entry("Charlie", 1650, ""))

	assert.True(t, eris.Is(svc.SetWithdrawn(ctx, id, 42, true), ErrUnknownPlayer))
	require.NoError(t, svc.SetWithdrawn(ctx, id, 3, true))

	r1, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	require.Len(t, r1.Matches, 1)
	assert.False(t, r1.Matches[0].Involves(3))

	assert.True(t, eris.Is(svc.RemovePlayer(ctx, id, 1), ErrPlayerHasGames))
	assert.True(t, eris.Is(svc.RemovePlayer(ctx, id, 42), ErrUnknownPlayer))
	require.NoError(t, svc.RemovePlayer(ctx, id, 3))

	// an id nobody ever played under is free again
	late, err := svc.AddPlayer(ctx, id, entry("Delta", 1600, ""))
	require.NoError(t, err)
	assert.Equal(t, swiss.PlayerID(3), late.ID)

	recordAll(t, svc, id, r1, "draw")
	r2, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	assert.Len(t, r2.Matches, 2)

	tourn, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Delta", tourn.PlayerName(3))
	assert.Len(t, tourn.Players, 3)
}

func TestSectionsPairIndependently(t *testing.T) {
	svc, _, id := newTestService(t, "")
	ctx := context.Background()
	addPlayers(t, svc, id,
		entry("Uma", 1500, "U1600"), entry("Victor", 1450, "U1600"),
		entry("Wendy", 1400, "U1600"),
		entry("Alpha", 2100, "Open"), entry("Bravo", 2000, "Open"))

	r1, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	require.Len(t, r1.Matches, 3)

	tourn, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Open", "U1600"}, tourn.Sections())

	open := r1.Matches[0]
	assert.Equal(t, 1, open.Table)
	assert.Equal(t, swiss.PlayerID(4), open.Player1)
	assert.Equal(t, swiss.PlayerID(5), open.Player2)
	assert.Equal(t, 2, r1.Matches[1].Table)
	assert.Equal(t, 3, r1.Matches[2].Table)
	assert.True(t, r1.Matches[2].IsBye())
	assert.Equal(t, swiss.PlayerID(3), r1.Matches[2].Player1)

	all, err := svc.Standings(ctx, id)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Open", all[0].Section)
	assert.Len(t, all[0].Standings, 2)
	assert.Len(t, all[1].Standings, 3)
}

func TestLoneSectionPlayerBlocksRound(t *testing.T) {
	svc, repo, id := newTestService(t, "")
	ctx := context.Background()
	addPlayers(t, svc, id, entry("Alpha", 2100, "Open"), entry("Bravo", 2000, "Open"),
		entry("Uma", 1500, "U1600"))

	saves := repo.saves
	_, err := svc.NextRound(ctx, id)
	assert.True(t, eris.Is(err, swiss.ErrInsufficientPlayers), "got %v", err)
	assert.Equal(t, saves, repo.saves)

	// a section with nobody eligible is skipped
	require.NoError(t, svc.SetWithdrawn(ctx, id, 3, true))
	r1, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	assert.Len(t, r1.Matches, 1)
}

func TestStrictTournamentAvoidsRematches(t *testing.T) {
	for _, mode := range []string{"greedy", "strict"} {
		t.Run(mode, func(t *testing.T) {
			svc, _, id := newTestService(t, mode)
			ctx := context.Background()
			addPlayers(t, svc, id, entry("Alpha", 1800, ""), entry("Bravo", 1700, ""),
				entry("Charlie", 1650, ""), entry("Delta", 1600, ""))

			for n := 1; n <= 3; n++ {
				r, err := svc.NextRound(ctx, id)
				require.NoError(t, err)
				recordAll(t, svc, id, r, "1-0")
			}

			tourn, err := svc.Get(ctx, id)
			require.NoError(t, err)
			graph := swiss.NewOpponentGraph(tourn.History())
			if mode == "strict" {
				for _, p := range tourn.Players {
					assert.Len(t, graph.Opponents(p.ID), 3, p.Name)
				}
			}
			ledger := swiss.NewLedger(tourn.History())
			total := 0.0
			for _, p := range tourn.Players {
				total += ledger.Score(p.ID)
			}
			assert.Equal(t, 6.0, total)
		})
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		name        string
		entries     []Entry
		withdraw    []swiss.PlayerID
		play        bool
		record      bool
		canGenerate bool
		reason      string
		next        int
		unplayed    int
	}{
		{
			name:   "empty roster",
			reason: "no eligible players",
			next:   1,
		},
		{
			name:    "one player",
			entries: []Entry{entry("Alpha", 1800, "")},
			reason:  "UNNAMED Section: 1 eligible",
			next:    1,
		},
		{
			name: "lone player in a section",
			entries: []Entry{entry("Alpha", 2100, "Open"), entry("Bravo", 2000, "Open"),
				entry("Uma", 1500, "U1600")},
			reason: "U1600 Section: 1 eligible",
			next:   1,
		},
		{
			name: "withdrawn section is skipped",
			entries: []Entry{entry("Alpha", 2100, "Open"), entry("Bravo", 2000, "Open"),
				entry("Uma", 1500, "U1600")},
			withdraw:    []swiss.PlayerID{3},
			canGenerate: true,
			next:        1,
		},
		{
			name: "ready for round 1",
			entries: []Entry{entry("Alpha", 1800, ""), entry("Bravo", 1700, ""),
				entry("Charlie", 1650, "")},
			canGenerate: true,
			next:        1,
		},
		{
			name: "round incomplete",
			entries: []Entry{entry("Alpha", 1800, ""), entry("Bravo", 1700, ""),
				entry("Charlie", 1650, "")},
			play:     true,
			reason:   "unplayed",
			next:     2,
			unplayed: 1,
		},
		{
			name: "round complete",
			entries: []Entry{entry("Alpha", 1800, ""), entry("Bravo", 1700, ""),
				entry("Charlie", 1650, "")},
			play:        true,
			record:      true,
			canGenerate: true,
			next:        2,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, _, id := newTestService(t, "")
			ctx := context.Background()
			addPlayers(t, svc, id, c.entries...)
			for _, pid := range c.withdraw {
				require.NoError(t, svc.SetWithdrawn(ctx, id, pid, true))
			}
			if c.play {
				r, err := svc.NextRound(ctx, id)
				require.NoError(t, err)
				if c.record {
					recordAll(t, svc, id, r, "1-0")
				}
			}

			st, err := svc.Status(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, c.canGenerate, st.CanGenerate)
			assert.Equal(t, c.next, st.NextRound)
			assert.Equal(t, c.unplayed, st.Unplayed)
			if c.reason == "" {
				assert.Empty(t, st.Reason)
			} else {
				assert.Contains(t, st.Reason, c.reason)
			}

			// the status agrees with an actual attempt to pair
			_, err = svc.NextRound(ctx, id)
			if c.canGenerate {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, st.Reason, err.Error())
			}
		})
	}
}
