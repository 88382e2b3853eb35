package loadgen

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	typeWidth = 8
	nameWidth = 48
)

// EndpointStats accumulates response times for one "METHOD /path" entry.
// Response times are kept as a histogram of rounded milliseconds.
type EndpointStats struct {
	Method        string
	Name          string
	Requests      int
	Failures      int
	TotalMs       int64
	MinMs         int64
	MaxMs         int64
	responseTimes map[int64]int
}

// AvgMs is the mean response time in milliseconds.
func (e *EndpointStats) AvgMs() float64 {
	if e.Requests == 0 {
		return 0
	}
	return float64(e.TotalMs) / float64(e.Requests)
}

// MedianMs is the median of the rounded response times.
func (e *EndpointStats) MedianMs() int64 {
	return percentileFromHistogram(e.responseTimes, e.Requests, 0.5)
}

// Stats collects request results from all simulated users.
type Stats struct {
	mu        sync.Mutex
	entries   map[string]*EndpointStats
	startedAt time.Time
	now       func() time.Time
}

// NewStats returns an empty collector whose clock starts now.
func NewStats() *Stats {
	s := &Stats{entries: make(map[string]*EndpointStats), now: time.Now}
	s.startedAt = s.now()
	return s
}

// Record adds one request outcome. failed marks transport errors and
// responses with a status of 400 or above.
func (s *Stats) Record(method, name string, elapsed time.Duration, failed bool) {
	ms := elapsed.Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := method + " " + name
	e, ok := s.entries[key]
	if !ok {
		e = &EndpointStats{Method: method, Name: name, MinMs: ms, responseTimes: make(map[int64]int)}
		s.entries[key] = e
	}
	e.Requests++
	if failed {
		e.Failures++
	}
	e.TotalMs += ms
	if ms < e.MinMs {
		e.MinMs = ms
	}
	if ms > e.MaxMs {
		e.MaxMs = ms
	}
	e.responseTimes[roundResponseTime(ms)]++
}

// Snapshot returns a copy of every endpoint sorted by name, then method.
func (s *Stats) Snapshot() []EndpointStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]EndpointStats, 0, len(s.entries))
	for _, e := range s.entries {
		c := *e
		c.responseTimes = make(map[int64]int, len(e.responseTimes))
		for k, v := range e.responseTimes {
			c.responseTimes[k] = v
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// WriteTable writes the stats in the Locust console layout, one row per
// endpoint followed by an Aggregated row.
func (s *Stats) WriteTable(w io.Writer) error {
	entries := s.Snapshot()
	elapsed := s.now().Sub(s.startedAt).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}

	sep := strings.Repeat("-", typeWidth) + "|" + strings.Repeat("-", nameWidth) + "|" +
		"-------|-------------|-------|-------|-------|-------|--------|-----------"

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %-*s %7s %12s | %7s %7s %7s %7s | %7s %11s\n",
		typeWidth, "Type", nameWidth, "Name", "# reqs", "# fails", "Avg", "Min", "Max", "Med", "req/s", "failures/s")
	b.WriteString(sep + "\n")

	agg := EndpointStats{responseTimes: make(map[int64]int)}
	for i := range entries {
		e := &entries[i]
		writeRow(&b, e.Method, e.Name, e, elapsed)

		if agg.Requests == 0 || e.MinMs < agg.MinMs {
			agg.MinMs = e.MinMs
		}
		agg.Requests += e.Requests
		agg.Failures += e.Failures
		agg.TotalMs += e.TotalMs
		if e.MaxMs > agg.MaxMs {
			agg.MaxMs = e.MaxMs
		}
		for k, v := range e.responseTimes {
			agg.responseTimes[k] += v
		}
	}

	b.WriteString(sep + "\n")
	writeRow(&b, "", "Aggregated", &agg, elapsed)
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write stats table: %w", err)
	}
	return nil
}

func writeRow(b *strings.Builder, method, name string, e *EndpointStats, elapsed float64) {
	failPct := 0.0
	if e.Requests > 0 {
		failPct = float64(e.Failures) / float64(e.Requests) * 100
	}
	fails := fmt.Sprintf("%d(%.2f%%)", e.Failures, failPct)

	fmt.Fprintf(b, "%-*s %-*s %7d %12s | %7d %7d %7d %7d | %7.2f %11.2f\n",
		typeWidth, method, nameWidth, name, e.Requests, fails,
		int64(math.Round(e.AvgMs())), e.MinMs, e.MaxMs, e.MedianMs(),
		float64(e.Requests)/elapsed, float64(e.Failures)/elapsed)
}

// roundResponseTime keeps two significant digits above 100ms so the
// histogram stays small.
func roundResponseTime(ms int64) int64 {
	switch {
	case ms < 100:
		return ms
	case ms < 1000:
		return int64(math.Round(float64(ms)/10) * 10)
	case ms < 10000:
		return int64(math.Round(float64(ms)/100) * 100)
	default:
		return int64(math.Round(float64(ms)/1000) * 1000)
	}
}

// percentileFromHistogram returns the smallest bucket whose cumulative count
// reaches p of total.
func percentileFromHistogram(hist map[int64]int, total int, p float64) int64 {
	if total == 0 || len(hist) == 0 {
		return 0
	}
	buckets := make([]int64, 0, len(hist))
	for k := range hist {
		buckets = append(buckets, k)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	target := int(math.Ceil(float64(total) * p))
	if target < 1 {
		target = 1
	}
	seen := 0
	for _, k := range buckets {
		seen += hist[k]
		if seen >= target {
			return k
		}
	}
	return buckets[len(buckets)-1]
}
