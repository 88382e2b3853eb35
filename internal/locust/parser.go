package locust

import (
	"regexp"
	"strconv"
)

// statLinePattern matches a Locust stats row such as
// "GET /cart 10 0(0.00%) | 120 80 200 110 |". Trailing columns are ignored.
var statLinePattern = regexp.MustCompile(
	`(GET|POST)\s+(/\S*)\s+(\d+)\s+(\d+)\((\d+\.\d+)%\)\s+\|\s+` +
		`(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+\|`,
)

// ParseLine extracts a StatLine from line. The match may start anywhere in the
// line. Lines that do not have the stats shape return false.
func ParseLine(line string) (StatLine, bool) {
	m := statLinePattern.FindStringSubmatch(line)
	if m == nil {
		return StatLine{}, false
	}

	ints := make([]int, 0, 6)
	for _, idx := range []int{3, 4, 6, 7, 8, 9} {
		n, err := strconv.Atoi(m[idx])
		if err != nil {
			// Only reachable on overflow.
			return StatLine{}, false
		}
		ints = append(ints, n)
	}

	return StatLine{
		Method:      Method(m[1]),
		Path:        m[2],
		Requests:    ints[0],
		Fails:       ints[1],
		FailPercent: m[5],
		Avg:         ints[2],
		Min:         ints[3],
		Max:         ints[4],
		Median:      ints[5],
	}, true
}
