/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
// Any layout dateparse recognizes is accepted; times without a zone are
// taken as UTC.
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseIn(s, time.UTC)
}

// FormatDate renders t the way ParseDateOrZero reads it back; the zero
// time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ScoreToString renders half-point scores chess style: 0, ½, 1, 1½ ...
func ScoreToString(score float64) string {
	whole, frac := math.Modf(score)
	if frac == 0 {
		return fmt.Sprintf("%d", int(whole))
	}
	if math.Abs(frac) == 0.5 {
		if whole == 0 {
			if frac < 0 {
				return "-½"
			}
			return "½"
		}
		return fmt.Sprintf("%d½", int(whole))
	}
	return fmt.Sprintf("%.2f", score)
}
