package scheduler

import (
	"fmt"
	"time"
)

// MinInterval is the shortest accepted IntervalSchedule period.
const MinInterval = time.Second

// IntervalSchedule runs a job at a fixed period.
type IntervalSchedule struct {
	Interval time.Duration
}

// Every creates an IntervalSchedule, clamping interval to MinInterval.
func Every(interval time.Duration) *IntervalSchedule {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &IntervalSchedule{Interval: interval}
}

// Next implements Schedule.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String implements Schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}
