/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Mode selects the pairing algorithm.
//
// ModeGreedy pairs score brackets first-fit and resolves leftovers across
// brackets. It is quadratic at worst but may produce a rematch even when a
// rematch-free matching exists.
//
// ModeStrict searches exhaustively and guarantees a rematch-free matching
// whenever one exists, otherwise one with the fewest possible rematches. Its
// cost is exponential in the worst case and is bounded by
// Options.SearchLimit.
type Mode int

const (
	ModeGreedy Mode = iota
	ModeStrict
)

func (m Mode) String() string {
	switch m {
	case ModeGreedy:
		return "greedy"
	case ModeStrict:
		return "strict"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "greedy":
		return ModeGreedy, nil
	case "strict":
		return ModeStrict, nil
	}
	return ModeGreedy, eris.Errorf("unknown pairing mode %q", s)
}

const DefaultSearchLimit = 2000000

type Options struct {
	Mode Mode
	// SearchLimit caps the nodes visited by ModeStrict; <= 0 selects
	// DefaultSearchLimit.
	SearchLimit int
	Logger      *zerolog.Logger
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return o.Logger
}

func (o Options) searchLimit() int {
	if o.SearchLimit <= 0 {
		return DefaultSearchLimit
	}
	return o.SearchLimit
}

// Entrant is a player eligible for the round being paired, carrying the
// derived state pairing depends on.
type Entrant struct {
	ID           PlayerID
	Rating       int
	Score        float64
	ColorBalance int
	ByeCount     int
}

// Board is one pairing. A bye board has Black == NoPlayer.
type Board struct {
	Number  int
	White   PlayerID
	Black   PlayerID
	Rematch bool
}

func (b Board) IsBye() bool {
	return b.Black == NoPlayer
}

// ByeAward names the bye recipient and their bye count after this round.
// The caller persists the new count together with the round.
type ByeAward struct {
	Player   PlayerID
	ByeCount int
}

type Pairings struct {
	// Boards is numbered from 1; a bye, if any, is the final board.
	Boards    []Board
	Bye       *ByeAward
	Rematches int
}

type pair struct {
	a, b Entrant
}

// Pair assigns every entrant to exactly one board. Either a complete set of
// boards is returned or an error and nothing.
func Pair(entrants []Entrant, graph *OpponentGraph, opts Options) (*Pairings, error) {
	if len(entrants) < 2 {
		return nil, eris.Wrapf(ErrInsufficientPlayers, "%d eligible", len(entrants))
	}
	seen := make(map[PlayerID]bool, len(entrants))
	for _, e := range entrants {
		if e.ID <= NoPlayer || seen[e.ID] {
			return nil, eris.Wrapf(ErrInvalidHistory, "entrant id %d invalid or repeated",
				e.ID)
		}
		seen[e.ID] = true
	}
	if graph == nil {
		graph = NewOpponentGraph(nil)
	}
	log := opts.logger()

	pool := make([]Entrant, len(entrants))
	copy(pool, entrants)

	var bye *ByeAward
	if len(pool)%2 == 1 {
		idx := selectBye(pool)
		bye = &ByeAward{Player: pool[idx].ID, ByeCount: pool[idx].ByeCount + 1}
		log.Debug().Int("player", int(bye.Player)).
			Int("priorByes", pool[idx].ByeCount).
			Float64("score", pool[idx].Score).Msg("bye assigned")
		pool = removeIndex(pool, idx)
	}
	sortBySeed(pool)

	var pairs []pair
	var err error
	switch opts.Mode {
	case ModeStrict:
		pairs, err = pairStrict(pool, graph, opts.searchLimit(), log)
	default:
		pairs, err = pairGreedy(pool, graph, log)
	}
	if err != nil {
		return nil, err
	}

	ret := &Pairings{Bye: bye}
	boardNum := 1
	for _, p := range pairs {
		b := buildOneBoard(p.a, p.b, &boardNum)
		b.Rematch = graph.Played(p.a.ID, p.b.ID)
		if b.Rematch {
			ret.Rematches++
		}
		ret.Boards = append(ret.Boards, b)
	}
	if bye != nil {
		ret.Boards = append(ret.Boards, Board{Number: boardNum, White: bye.Player})
	}

	return ret, nil
}

// selectBye picks the lowest (score, rating, id) entrant among those with no
// prior bye, or among everyone when all have had one.
func selectBye(pool []Entrant) int {
	best := -1
	anyFresh := false
	for _, e := range pool {
		if e.ByeCount == 0 {
			anyFresh = true
			break
		}
	}
	for i, e := range pool {
		if anyFresh && e.ByeCount != 0 {
			continue
		}
		if best < 0 || byeLess(e, pool[best]) {
			best = i
		}
	}
	return best
}

func byeLess(a, b Entrant) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if a.Rating != b.Rating {
		return a.Rating < b.Rating
	}
	return a.ID < b.ID
}

func seedLess(a, b Entrant) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.ID < b.ID
}

func sortBySeed(pool []Entrant) {
	sort.Slice(pool, func(i, j int) bool {
		return seedLess(pool[i], pool[j])
	})
}

// brackets splits a seed-sorted pool into runs of equal score.
func brackets(pool []Entrant) [][]Entrant {
	var ret [][]Entrant
	start := 0
	for i := 1; i <= len(pool); i++ {
		if i == len(pool) || pool[i].Score != pool[start].Score {
			ret = append(ret, pool[start:i])
			start = i
		}
	}
	return ret
}

func pairGreedy(pool []Entrant, graph *OpponentGraph,
	log *zerolog.Logger) ([]pair, error) {

	var pairs []pair
	var floaters []Entrant

	for _, bracket := range brackets(pool) {
		used := make([]bool, len(bracket))
		for i := range bracket {
			if used[i] {
				continue
			}
			used[i] = true
			partner := firstUnused(bracket, used, i, func(c Entrant) bool {
				return !graph.Played(bracket[i].ID, c.ID)
			})
			if partner < 0 {
				log.Debug().Int("player", int(bracket[i].ID)).
					Float64("score", bracket[i].Score).Msg("floater")
				floaters = append(floaters, bracket[i])
				continue
			}
			used[partner] = true
			pairs = append(pairs, pair{a: bracket[i], b: bracket[partner]})
		}
	}

	sortBySeed(floaters)
	used := make([]bool, len(floaters))
	for i := range floaters {
		if used[i] {
			continue
		}
		used[i] = true
		partner := firstUnused(floaters, used, i, func(c Entrant) bool {
			return !graph.Played(floaters[i].ID, c.ID)
		})
		if partner < 0 {
			partner = firstUnused(floaters, used, i, func(Entrant) bool {
				return true
			})
			if partner < 0 {
				return nil, eris.Wrapf(ErrPairingInfeasible,
					"player %d left without a partner", floaters[i].ID)
			}
			log.Debug().Int("white", int(floaters[i].ID)).
				Int("black", int(floaters[partner].ID)).Msg("rematch forced")
		}
		used[partner] = true
		pairs = append(pairs, pair{a: floaters[i], b: floaters[partner]})
	}

	return pairs, nil
}

func firstUnused(list []Entrant, used []bool, after int,
	ok func(Entrant) bool) int {

	for j := after + 1; j < len(list); j++ {
		if !used[j] && ok(list[j]) {
			return j
		}
	}
	return -1
}

// buildOneBoard gives black to the entrant with the larger white surplus;
// on equal balance the higher seed keeps white.
func buildOneBoard(a, b Entrant, boardNum *int) Board {
	white, black := a, b
	if a.ColorBalance > b.ColorBalance {
		white, black = b, a
	}
	board := Board{
		Number: *boardNum,
		White:  white.ID,
		Black:  black.ID,
	}
	*boardNum++

	return board
}

func removeIndex(s []Entrant, idx int) []Entrant {
	ret := make([]Entrant, 0, len(s)-1)
	ret = append(ret, s[:idx]...)
	return append(ret, s[idx+1:]...)
}
