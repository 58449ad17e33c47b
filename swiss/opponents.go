/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "sort"

// OpponentGraph records who has faced whom in finished games. Byes add no
// edges.
type OpponentGraph struct {
	edges map[PlayerID]map[PlayerID]int
}

func NewOpponentGraph(history []Match) *OpponentGraph {
	g := &OpponentGraph{edges: make(map[PlayerID]map[PlayerID]int)}
	for _, m := range history {
		if m.IsBye() || m.Player1 == NoPlayer || !m.Finished() {
			continue
		}
		g.link(m.Player1, m.Player2)
		g.link(m.Player2, m.Player1)
	}
	return g
}

func (g *OpponentGraph) link(a, b PlayerID) {
	opps, ok := g.edges[a]
	if !ok {
		opps = make(map[PlayerID]int)
		g.edges[a] = opps
	}
	opps[b]++
}

// Played reports whether a and b have met before.
func (g *OpponentGraph) Played(a, b PlayerID) bool {
	return g.Times(a, b) > 0
}

// Times returns how many finished games a and b have played each other.
func (g *OpponentGraph) Times(a, b PlayerID) int {
	return g.edges[a][b]
}

// Opponents returns the distinct opponents of id in ascending id order.
func (g *OpponentGraph) Opponents(id PlayerID) []PlayerID {
	opps := make([]PlayerID, 0, len(g.edges[id]))
	for o := range g.edges[id] {
		opps = append(opps, o)
	}
	sort.Slice(opps, func(i, j int) bool { return opps[i] < opps[j] })
	return opps
}
