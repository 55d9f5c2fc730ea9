package scheduler

import (
	"context"
	"time"
)

// Job is a unit of recurring work, e.g. re-analysing a watchlist
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error

	// Schedule is a cron spec with a seconds field ("0 30 18 * * 1-5")
	// or a descriptor such as "@daily"
	Schedule() string
}

// JobResult is the outcome of one run, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const maxHistory = 100

// JobHistory keeps the last maxHistory results of a job, oldest first
type JobHistory struct {
	results []JobResult
}

// Add records a result, evicting the oldest beyond maxHistory
func (h *JobHistory) Add(r JobResult) {
	h.results = append(h.results, r)
	if over := len(h.results) - maxHistory; over > 0 {
		h.results = append(h.results[:0:0], h.results[over:]...)
	}
}

// Len is the number of retained results
func (h *JobHistory) Len() int {
	return len(h.results)
}

// Latest returns up to n of the newest results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.results) {
		n = len(h.results)
	}
	out := make([]JobResult, n)
	copy(out, h.results[len(h.results)-n:])
	return out
}

// Stats summarises the retained results
func (h *JobHistory) Stats(name, schedule string) JobStats {
	st := JobStats{
		JobName:   name,
		Schedule:  schedule,
		TotalRuns: len(h.results),
	}

	// 최신 결과부터 거꾸로
	for i := len(h.results) - 1; i >= 0; i-- {
		r := h.results[i]
		if st.LastRun == nil {
			st.LastRun = timePtr(r.StartTime)
		}
		if r.Success {
			st.SuccessCount++
			if st.LastSuccess == nil {
				st.LastSuccess = timePtr(r.StartTime)
			}
		} else {
			st.FailureCount++
			if st.LastFailure == nil {
				st.LastFailure = timePtr(r.StartTime)
			}
		}
	}

	if st.TotalRuns > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalRuns)
	}
	return st
}

// JobStats is the per-job summary reported by the scheduler
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"` // 0.0 - 1.0
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}

func timePtr(t time.Time) *time.Time {
	return &t
}
