/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"fmt"
	"strings"

	"github.com/mikeb26/boylstonchessclub-swiss/internal"
	"github.com/mikeb26/boylstonchessclub-swiss/swiss"
)

// BuildPairingsOutput formats one round's boards into grouped, aligned
// tables. Scores shown are those entering the round.
func BuildPairingsOutput(t *Tournament, number int) string {
	r := t.Round(number)
	if r == nil {
		return fmt.Sprintf("Round %v has not been paired\n", number)
	}
	ledger := t.scoresBefore(number)
	describe := func(id swiss.PlayerID) string {
		rating := swiss.DefaultRating
		if e := t.Entry(id); e != nil {
			rating = e.EffectiveRating()
		}
		return fmt.Sprintf("%s(%d %v)", t.PlayerName(id), rating,
			internal.ScoreToString(ledger.Score(id)))
	}

	bySection := make(map[string][]swiss.Match)
	for _, m := range r.Matches {
		sec := ""
		if e := t.Entry(m.Player1); e != nil {
			sec = e.Section
		}
		bySection[sec] = append(bySection[sec], m)
	}
	sections := t.Sections()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", number))

	for _, sec := range sections {
		list, ok := bySection[sec]
		if !ok {
			continue
		}
		headers := []string{"Board", "White", "Black", "Result"}
		var rows [][]string
		for _, m := range list {
			row := []string{fmt.Sprintf("%d.", m.Table), describe(m.Player1)}
			if m.IsBye() {
				row = append(row, "BYE(1)", "")
			} else {
				row = append(row, describe(m.Player2), ResultString(m.Outcome))
			}
			rows = append(rows, row)
		}

		if len(sections) > 1 {
			sb.WriteString(SectionTitle(sec) + "\n")
		}
		writeTable(&sb, headers, rows)
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildStandingsOutput formats standings with their tiebreak columns.
func BuildStandingsOutput(t *Tournament, all []SectionStandings) string {
	var sb strings.Builder

	if len(t.Rounds) == 0 {
		sb.WriteString("Standings before Round 1:\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("Standings after Round %v:\n\n",
			t.LastRound().Number))
	}

	for _, ss := range all {
		headers := []string{"Place", "Name", "Rating", "Score", "Buch", "SB",
			"W-D-L", "Win%"}
		var rows [][]string
		for _, s := range ss.Standings {
			name := s.Player.Name
			if e := t.Entry(s.Player.ID); e != nil && e.Withdrawn {
				name += " (wd)"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%v.", s.Rank),
				name,
				fmt.Sprintf("%d", s.Player.EffectiveRating()),
				internal.ScoreToString(s.Score),
				fmt.Sprintf("%.1f", s.Buchholz),
				fmt.Sprintf("%.2f", s.SonnebornBerger),
				fmt.Sprintf("%d-%d-%d", s.Wins, s.Draws, s.Losses),
				fmt.Sprintf("%.0f", s.WinPercent),
			})
		}

		if len(all) > 1 {
			sb.WriteString(SectionTitle(ss.Section) + "\n")
		}
		writeTable(&sb, headers, rows)
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildCrossTableOutput renders a section's wall chart: one row per player
// in standings order, one column per round. Opponents are referred to by
// their place number.
func BuildCrossTableOutput(t *Tournament, ss SectionStandings) string {
	place := make(map[swiss.PlayerID]int)
	for _, s := range ss.Standings {
		place[s.Player.ID] = s.Rank
	}

	headers := []string{"No", "Name", "Rating", "Pts"}
	for _, r := range t.Rounds {
		headers = append(headers, fmt.Sprintf("R%d", r.Number))
	}

	var rows [][]string
	for _, s := range ss.Standings {
		row := []string{
			fmt.Sprintf("%d.", s.Rank),
			s.Player.Name,
			fmt.Sprintf("%d", s.Player.EffectiveRating()),
			internal.ScoreToString(s.Score),
		}
		for _, r := range t.Rounds {
			row = append(row, crossTableCell(r, s.Player.ID, place))
		}
		rows = append(rows, row)
	}

	var sb strings.Builder
	sb.WriteString(SectionTitle(ss.Section) + "\n")
	writeTable(&sb, headers, rows)
	sb.WriteString("\n")

	return sb.String()
}

func crossTableCell(r Round, id swiss.PlayerID,
	place map[swiss.PlayerID]int) string {

	for _, m := range r.Matches {
		if !m.Involves(id) {
			continue
		}
		if m.IsBye() {
			return "BYE(1)"
		}
		opp, color, won, lost := m.Player2, 'w', swiss.Player1Win, swiss.Player2Win
		if m.Player2 == id {
			opp, color, won, lost = m.Player1, 'b', swiss.Player2Win, swiss.Player1Win
		}
		var code string
		switch m.Outcome {
		case won:
			code = "W"
		case lost:
			code = "L"
		case swiss.Draw:
			code = "D"
		default:
			code = "?"
		}
		return fmt.Sprintf("%s%d(%c)", code, place[opp], color)
	}
	return "-"
}

// writeTable writes headers and rows left aligned in columns two spaces
// apart.
func writeTable(sb *strings.Builder, headers []string, rows [][]string) {
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if l := len([]rune(cell)); l > colWidths[i] {
				colWidths[i] = l
			}
		}
	}

	write := func(cells []string) {
		var line strings.Builder
		for i, cell := range cells {
			line.WriteString(cell)
			if i < len(cells)-1 {
				pad := colWidths[i] - len([]rune(cell)) + 2
				line.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " ") + "\n")
	}

	write(headers)
	for _, row := range rows {
		write(row)
	}
}
