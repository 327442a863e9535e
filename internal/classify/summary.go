// Package classify turns a Jenkins job list into a severity verdict.
//
// Both classifiers are pure functions: the same job list always produces the
// same counts, verdict, and report body.
package classify

import (
	"fmt"

	"github.com/macrat/check-jenkins/internal/jenkins"
	"github.com/macrat/check-jenkins/lib-nagios"
)

// SummaryCounts is how many jobs of a job list fell into each aggregate
// state bucket. Every job lands in exactly one bucket; colors this probe
// does not understand land in Unrecognized.
type SummaryCounts struct {
	Total        int
	Passed       int
	Failed       int
	Unstable     int
	Disabled     int
	Unrecognized int
}

// CountSummary scans the job list once and buckets each job by its color.
func CountSummary(jobs []jenkins.Job) SummaryCounts {
	c := SummaryCounts{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Color {
		case jenkins.ColorBlue:
			c.Passed++
		case jenkins.ColorRed:
			c.Failed++
		case jenkins.ColorYellow:
			c.Unstable++
		case jenkins.ColorDisabled:
			c.Disabled++
		default:
			c.Unrecognized++
		}
	}
	return c
}

// Active is the number of jobs that are not disabled.
func (c SummaryCounts) Active() int {
	return c.Total - c.Disabled
}

// Running is the number of active jobs that are in none of the passed,
// failed, or unstable buckets.
func (c SummaryCounts) Running() int {
	return c.Active() - c.Passed - c.Failed - c.Unstable
}

// Verdict derives the severity and the verdict message from the counts.
//
// Failed jobs win over unstable jobs, whatever the other counts are.
func (c SummaryCounts) Verdict() (nagios.Status, string) {
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
		message += fmt.Sprintf(", %d with unrecognized state", c.Unrecognized)
	}

	return status, message
}

// Perfdata is the metrics line counters for the aggregate-state probe.
func (c SummaryCounts) Perfdata() []nagios.Perfdata {
	return []nagios.Perfdata{
		{Label: "jobs", Value: int64(c.Total)},
		{Label: "passed", Value: int64(c.Passed)},
		{Label: "unstable", Value: int64(c.Unstable)},
		{Label: "failed", Value: int64(c.Failed)},
		{Label: "disabled", Value: int64(c.Disabled)},
		{Label: "running", Value: int64(c.Running())},
	}
}
