package classify

import (
	"fmt"
	"time"

	"github.com/macrat/check-jenkins/internal/jenkins"
	"github.com/macrat/check-jenkins/lib-nagios"
)

// BuildCounts is how many recently built jobs of a job list fell into each
// last-build-result bucket. Jobs that are disabled, never built, or whose
// last build is older than the freshness window are in no bucket at all.
type BuildCounts struct {
	Passed       int
	Failed       int
	Unstable     int
	Running      int
	Unrecognized int
}

// CountBuilds scans the job list once, buckets each job by the result of
// its last build, and accumulates one "[RESULT] name" report line per
// counted job, in the input order.
//
// A job is skipped entirely if it has never been built, if its last build
// started more than window before now, or if it is disabled.
func CountBuilds(jobs []jenkins.Job, now time.Time, window time.Duration) (BuildCounts, []string) {
	var c BuildCounts
	var report []string

	for _, j := range jobs {
		if j.LastBuild == nil {
			continue
		}
		if now.Sub(j.LastBuild.Time()) > window {
			continue
		}
		if j.Disabled {
			continue
		}

		switch j.LastBuild.Result {
		case jenkins.ResultRunning:
			c.Running++
		case jenkins.ResultSuccess:
			c.Passed++
		case jenkins.ResultFailure:
			c.Failed++
		case jenkins.ResultUnstable:
			c.Unstable++
		default:
			c.Unrecognized++
		}

		report = append(report, fmt.Sprintf("[%s] %s", j.LastBuild.Result, j.Name))
	}

	return c, report
}

// Verdict derives the severity and the verdict message from the counts,
// with the same priority rule as SummaryCounts.Verdict.
func (c BuildCounts) Verdict() (nagios.Status, string) {
	var status nagios.Status
	var message string

	switch {
	case c.Failed > 0:
		status = nagios.StatusCritical
		message = fmt.Sprintf("%d jobs failed", c.Failed)
	case c.Unstable > 0:
		status = nagios.StatusWarning
		message = fmt.Sprintf("%d jobs unstable", c.Unstable)
	default:
		status = nagios.StatusOK
		message = fmt.Sprintf("%d jobs passed", c.Passed)
	}

	if c.Unrecognized > 0 {
		message += fmt.Sprintf(", %d with unrecognized result", c.Unrecognized)
	}

	return status, message
}

// Perfdata is the metrics line counters for the freshness probe.
func (c BuildCounts) Perfdata() []nagios.Perfdata {
	return []nagios.Perfdata{
		{Label: "passed", Value: int64(c.Passed)},
		{Label: "unstable", Value: int64(c.Unstable)},
		{Label: "failed", Value: int64(c.Failed)},
		{Label: "running", Value: int64(c.Running)},
	}
}
