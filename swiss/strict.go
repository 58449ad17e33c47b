/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type strictSearch struct {
	pool  []Entrant
	graph *OpponentGraph
	used  []bool
	pairs []pair
	nodes int
	limit int
}

// pairStrict finds a perfect matching of the seed-sorted pool with the
// fewest rematches. Budgets are tried in increasing order so the first
// matching found is minimal; within a budget candidates are tried in seed
// order, rematch-free ones first.
func pairStrict(pool []Entrant, graph *OpponentGraph, limit int,
	log *zerolog.Logger) ([]pair, error) {

	s := &strictSearch{
		pool:  pool,
		graph: graph,
		used:  make([]bool, len(pool)),
		limit: limit,
	}

	for budget := 0; budget <= len(pool)/2; budget++ {
		s.pairs = s.pairs[:0]
		if s.search(budget) {
			log.Debug().Int("rematches", budget).Int("nodes", s.nodes).
				Msg("strict pairing found")
			ret := make([]pair, len(s.pairs))
			copy(ret, s.pairs)
			return ret, nil
		}
		if s.exhausted() {
			return nil, eris.Wrapf(ErrPairingInfeasible,
				"search limit of %d nodes reached at %d rematches", limit, budget)
		}
	}

	return nil, eris.Wrapf(ErrPairingInfeasible, "%d players", len(pool))
}

func (s *strictSearch) exhausted() bool {
	return s.nodes >= s.limit
}

func (s *strictSearch) search(budget int) bool {
	if s.exhausted() {
		return false
	}
	s.nodes++

	first := -1
	for i, u := range s.used {
		if !u {
			first = i
			break
		}
	}
	if first < 0 {
		return true
	}

	s.used[first] = true
	for _, allowRematch := range []bool{false, true} {
		if allowRematch && budget == 0 {
			break
		}
		for j := first + 1; j < len(s.pool); j++ {
			if s.used[j] {
				continue
			}
			if s.graph.Played(s.pool[first].ID, s.pool[j].ID) != allowRematch {
				continue
			}
			cost := 0
			if allowRematch {
				cost = 1
			}
			s.used[j] = true
			s.pairs = append(s.pairs, pair{a: s.pool[first], b: s.pool[j]})
			if s.search(budget - cost) {
				return true
			}
			s.pairs = s.pairs[:len(s.pairs)-1]
			s.used[j] = false
			if s.exhausted() {
				s.used[first] = false
				return false
			}
		}
	}
	s.used[first] = false

	return false
}
