// Package locust aggregates Locust console statistics into per-endpoint summaries.
package locust

// Method is an HTTP method that appears in a stats line.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// DefaultTopN is the number of endpoints reported in each ranking.
const DefaultTopN = 3

// StatLine is one parsed row of a Locust stats table.
type StatLine struct {
	Method      Method
	Path        string
	Requests    int
	Fails       int
	FailPercent string
	Avg         int
	Min         int
	Max         int
	Median      int
}

// Key returns the endpoint key "METHOD PATH".
func (l StatLine) Key() string {
	return string(l.Method) + " " + l.Path
}

// EndpointSummary accumulates every stats line seen for one endpoint.
// All timing lists have exactly Count entries.
type EndpointSummary struct {
	Key     string `json:"key"`
	Method  Method `json:"method"`
	Path    string `json:"path"`
	Count   int    `json:"count"`
	Fails   int    `json:"fails"`
	AvgList []int  `json:"avg_list"`
	MinList []int  `json:"min_list"`
	MaxList []int  `json:"max_list"`
	MedList []int  `json:"med_list"`
}

// MeanAvg is the arithmetic mean of the recorded average response times.
func (s *EndpointSummary) MeanAvg() float64 {
	return mean(s.AvgList)
}

// MeanMedian is the arithmetic mean of the recorded median response times.
func (s *EndpointSummary) MeanMedian() float64 {
	return mean(s.MedList)
}

// MaxResponse is the largest max response time observed.
func (s *EndpointSummary) MaxResponse() int {
	return maxOf(s.MaxList)
}

// MinResponse is the smallest min response time observed.
func (s *EndpointSummary) MinResponse() int {
	if len(s.MinList) == 0 {
		return 0
	}
	m := s.MinList[0]
	for _, v := range s.MinList[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Ranked is an endpoint entry in a top-N ranking.
type Ranked struct {
	Key         string  `json:"key"`
	Count       int     `json:"count"`
	Fails       int     `json:"fails"`
	MeanAvg     float64 `json:"mean_avg_ms"`
	MeanMedian  float64 `json:"mean_median_ms"`
	MaxResponse int     `json:"max_ms"`
	MinResponse int     `json:"min_ms"`
}

// Report is the result of aggregating a whole stats stream.
type Report struct {
	Endpoints      []*EndpointSummary `json:"endpoints"`
	TotalEndpoints int                `json:"total_endpoints"`
	TotalRequests  int                `json:"total_requests"`
	TotalFails     int                `json:"total_fails"`
	FailurePercent float64            `json:"failure_percent"`
	Slowest        []Ranked           `json:"slowest"`
	Busiest        []Ranked           `json:"busiest"`
	LinesRead      int                `json:"lines_read"`
	LinesMatched   int                `json:"lines_matched"`
}

func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum int
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func maxOf(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
