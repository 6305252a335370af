package stats

import (
	"math"
	"sync"
	"time"
)

// Stats accumulates trial durations for one (operation, target) pair.
// Mean and M2 follow Welford's online recurrence, so the sample standard
// deviation comes out of M2/(n-1) without buffering every duration.
type Stats struct {
	mu    sync.Mutex
	count int
	mean  float64 // seconds
	m2    float64
	min   time.Duration
	max   time.Duration
}

func (s *Stats) Add(duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	x := duration.Seconds()
	s.count++

	if s.count == 1 {
		s.mean = x
		s.m2 = 0
		s.min = duration
		s.max = duration

		return
	}

	if duration < s.min {
		s.min = duration
	}

	if duration > s.max {
		s.max = duration
	}

	delta := x - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (x - s.mean)
}

func (s *Stats) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

// Report snapshots the accumulated values. StdDev uses the (n-1)
// denominator and is zero below two samples.
func (s *Stats) Report() *StatsReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == 0 {
		return &StatsReport{}
	}

	stdDev := 0.0

	if s.count >= 2 {
		stdDev = math.Sqrt(s.m2 / float64(s.count-1))
	}

	return &StatsReport{
		Count:  s.count,
		Mean:   secondsToDuration(s.mean),
		StdDev: secondsToDuration(stdDev),
		Min:    s.min,
		Max:    s.max,
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
