// Package transit maps carrier transit-time codes to whole business days.
package transit

import "sort"

// Unknown is the code the carrier sends when it cannot commit to a transit time.
const Unknown = "UNKNOWN"

var days = map[string]int{
	"ONE_DAY":        1,
	"TWO_DAYS":       2,
	"THREE_DAYS":     3,
	"FOUR_DAYS":      4,
	"FIVE_DAYS":      5,
	"SIX_DAYS":       6,
	"SEVEN_DAYS":     7,
	"EIGHT_DAYS":     8,
	"NINE_DAYS":      9,
	"TEN_DAYS":       10,
	"ELEVEN_DAYS":    11,
	"TWELVE_DAYS":    12,
	"THIRTEEN_DAYS":  13,
	"FOURTEEN_DAYS":  14,
	"FIFTEEN_DAYS":   15,
	"SIXTEEN_DAYS":   16,
	"SEVENTEEN_DAYS": 17,
	"EIGHTEEN_DAYS":  18,
	"NINETEEN_DAYS":  19,
	"TWENTY_DAYS":    20,
}

// Days returns the business-day count for code. The second result is false
// for Unknown and for any value outside the carrier's enumeration.
func Days(code string) (int, bool) {
	n, ok := days[code]
	return n, ok
}

// Code returns the transit code for n business days, or Unknown.
func Code(n int) string {
	for c, d := range days {
		if d == n {
			return c
		}
	}
	return Unknown
}

// Codes lists every known code ordered by day count.
func Codes() []string {
	out := make([]string, 0, len(days))
	for c := range days {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return days[out[i]] < days[out[j]] })
	return out
}
