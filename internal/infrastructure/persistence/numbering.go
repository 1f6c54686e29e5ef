package persistence

import (
	"strconv"
	"strings"
)

// nextSequence returns the sequence after the numeric suffix of the
// highest issued document number, or 1 when none exists yet. A suffix
// that does not parse restarts the month at 1.
func nextSequence(last, monthPrefix string) int {
	if last == "" {
		return 1
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, monthPrefix))
	if err != nil {
		return 1
	}
	return seq + 1
}
