package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthCodes maps time.Month to the two-letter code embedded in invoice
// numbers: Jan=JA through Dec=DE.
var monthCodes = map[time.Month]string{
	time.January:   "JA",
	time.February:  "FE",
	time.March:     "MR",
	time.April:     "AP",
	time.May:       "MY",
	time.June:      "JN",
	time.July:      "JL",
	time.August:    "AU",
	time.September: "SE",
	time.October:   "OC",
	time.November:  "NO",
	time.December:  "DE",
}

// NumberPrefix builds the month-scoped invoice number prefix for the given
// time, e.g. March 2024 -> "24MR-".
func NumberPrefix(at time.Time) string {
	return fmt.Sprintf("%02d%s-", at.Year()%100, monthCodes[at.Month()])
}

// NextNumber computes the next invoice number for a month prefix given the
// numbers already allocated under it. The suffix after the last '-' is
// compared numerically, not lexically, so allocation stays monotonic once
// suffixes outgrow three digits ("1000" beats "999"). Suffixes are formatted
// zero-padded to width 3 and widen naturally beyond 999.
func NextNumber(prefix string, existing []string) string {
	highest := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		if seq, ok := NumberSuffix(number); ok && seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

// NumberSuffix parses the numeric sequence after the last '-' of an invoice
// number. The second return value is false when the number has no parsable
// suffix.
func NumberSuffix(number string) (int, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
