/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"strconv"
	"strings"
)

// SectionSorter implements sort.Interface for section display order:
// "Open", then "Championship", then U<Number> sections by descending number,
// then other names lexically, with the unnamed section last.
type SectionSorter []string

func (s SectionSorter) Len() int { return len(s) }

func (s SectionSorter) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s SectionSorter) Less(i, j int) bool {
	a, b := s[i], s[j]
	if ra, rb := sectionRank(a), sectionRank(b); ra != rb {
		return ra < rb
	}
	// both U-sections
	if strings.HasPrefix(a, "U") && strings.HasPrefix(b, "U") {
		ai, errA := strconv.Atoi(strings.TrimPrefix(a, "U"))
		bi, errB := strconv.Atoi(strings.TrimPrefix(b, "U"))
		if errA == nil && errB == nil && ai != bi {
			return ai > bi
		}
	}
	return a < b
}

func sectionRank(name string) int {
	switch {
	case name == "Open":
		return 0
	case name == "Championship":
		return 1
	case strings.HasPrefix(name, "U"):
		return 2
	case name == "":
		return 4
	default:
		return 3
	}
}

// SectionTitle is the heading printed for a section.
func SectionTitle(name string) string {
	if name == "" {
		name = "UNNAMED"
	}
	return name + " Section"
}
