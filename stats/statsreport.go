package stats

import "time"

type StatsReport struct {
	Count  int
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}
