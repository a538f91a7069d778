package reach

import (
	"strconv"
	"syscall"
	"time"
)

// Stats collects the counters of one run. Counters only ever grow during
// a run; the attribute map renders them for callers.
type Stats struct {
	start, end time.Time

	VisitedStates      int
	VisitedTransitions int
	Reachable          bool
}

func (s *Stats) SetStartTime() { s.start = time.Now() }

func (s *Stats) SetEndTime() { s.end = time.Now() }

// RunningTime is the wall-clock duration of the run in seconds.
func (s *Stats) RunningTime() float64 {
	return s.end.Sub(s.start).Seconds()
}

// MaxRSS returns the peak resident set size of the process as reported by
// getrusage, or -1 if it cannot be read.
func (s *Stats) MaxRSS() int64 {
	var usage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &usage); err != nil {
		return -1
	}
	return int64(usage.Maxrss)
}

// Attributes renders the statistics as a string map.
func (s *Stats) Attributes() map[string]string {
	return map[string]string{
		"RUNNING_TIME_SECONDS": strconv.FormatFloat(s.RunningTime(), 'f', -1, 64),
		"MEMORY_MAX_RSS":       strconv.FormatInt(s.MaxRSS(), 10),
		"VISITED_STATES":       strconv.Itoa(s.VisitedStates),
		"VISITED_TRANSITIONS":  strconv.Itoa(s.VisitedTransitions),
		"REACHABLE":            strconv.FormatBool(s.Reachable),
	}
}
