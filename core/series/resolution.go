package series

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrResolution is wrapped when a resolution string cannot be interpreted.
var ErrResolution = errors.New("could not recognise resolution")

var resolutionRe = regexp.MustCompile(`^PT(\d+)([MH])$`)

// ParseResolution interprets an ISO-8601 duration of the form PT<n>M or
// PT<n>H.
func ParseResolution(s string) (time.Duration, error) {
	m := resolutionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w %q", ErrResolution, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w %q", ErrResolution, s)
	}
	unit := time.Minute
	if m[2] == "H" {
		unit = time.Hour
	}
	return time.Duration(n) * unit, nil
}

// AtPosition returns the timestamp of the 1-based position in a series that
// starts at start with the given resolution.
func AtPosition(start time.Time, position int, resolution time.Duration) time.Time {
	return start.Add(time.Duration(position-1) * resolution)
}
