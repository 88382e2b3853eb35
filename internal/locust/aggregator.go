package locust

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

// maxLineSize bounds a single report line.
const maxLineSize = 1024 * 1024

// Aggregator groups stats lines by endpoint. The zero value is not usable;
// create one with NewAggregator.
type Aggregator struct {
	endpoints map[string]*EndpointSummary
	order     []string

	linesRead    int
	linesMatched int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{endpoints: make(map[string]*EndpointSummary)}
}

// Add records one stats line, creating the endpoint summary on first sight.
func (a *Aggregator) Add(line StatLine) {
	key := line.Key()
	s, ok := a.endpoints[key]
	if !ok {
		s = &EndpointSummary{Key: key, Method: line.Method, Path: line.Path}
		a.endpoints[key] = s
		a.order = append(a.order, key)
	}

	s.Count++
	s.Fails += line.Fails
	s.AvgList = append(s.AvgList, line.Avg)
	s.MinList = append(s.MinList, line.Min)
	s.MaxList = append(s.MaxList, line.Max)
	s.MedList = append(s.MedList, line.Median)
	a.linesMatched++
}

// AddLine parses raw and records it if it is a stats line.
func (a *Aggregator) AddLine(raw string) bool {
	a.linesRead++
	line, ok := ParseLine(raw)
	if !ok {
		return false
	}
	a.Add(line)
	return true
}

// Len returns the number of distinct endpoints.
func (a *Aggregator) Len() int {
	return len(a.endpoints)
}

// Report computes totals and the two top-N rankings. topN <= 0 uses DefaultTopN.
// With no matched lines the failure percentage is 0 and both rankings are empty.
func (a *Aggregator) Report(topN int) *Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	r := &Report{
		Endpoints:      make([]*EndpointSummary, 0, len(a.order)),
		TotalEndpoints: len(a.endpoints),
		LinesRead:      a.linesRead,
		LinesMatched:   a.linesMatched,
	}
	for _, key := range a.order {
		s := a.endpoints[key]
		r.Endpoints = append(r.Endpoints, s)
		r.TotalRequests += s.Count
		r.TotalFails += s.Fails
	}
	if r.TotalRequests > 0 {
		r.FailurePercent = float64(r.TotalFails) / float64(r.TotalRequests) * 100
	}

	r.Slowest = rank(r.Endpoints, topN, func(x, y *EndpointSummary) int {
		return compareFloat(y.MeanAvg(), x.MeanAvg())
	})
	r.Busiest = rank(r.Endpoints, topN, func(x, y *EndpointSummary) int {
		return y.Count - x.Count
	})
	return r
}

// rank sorts a copy of endpoints by cmp, breaking ties on the endpoint key,
// and returns the first n.
func rank(endpoints []*EndpointSummary, n int, cmp func(x, y *EndpointSummary) int) []Ranked {
	sorted := make([]*EndpointSummary, len(endpoints))
	copy(sorted, endpoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := cmp(sorted[i], sorted[j]); c != 0 {
			return c < 0
		}
		return sorted[i].Key < sorted[j].Key
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]Ranked, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, Ranked{
			Key:         s.Key,
			Count:       s.Count,
			Fails:       s.Fails,
			MeanAvg:     s.MeanAvg(),
			MeanMedian:  s.MeanMedian(),
			MaxResponse: s.MaxResponse(),
			MinResponse: s.MinResponse(),
		})
	}
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Analyze reads a Locust report from r and aggregates every stats line.
// Lines that do not match are skipped. Only read errors are returned.
func Analyze(r io.Reader, topN int) (*Report, error) {
	agg := NewAggregator()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		agg.AddLine(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}

	slog.Debug("Aggregated stats lines", "read", agg.linesRead, "matched", agg.linesMatched, "endpoints", agg.Len())
	return agg.Report(topN), nil
}

// AnalyzeFile opens path and runs Analyze on it.
func AnalyzeFile(path string, topN int) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Analyze(f, topN)
}
