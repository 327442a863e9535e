package jenkins

import (
	"time"
)

const (
	// ColorUnknown means the ball color is none of the ones this probe
	// understands, for example an "_anime" color of a job that is building,
	// or "aborted" or "notbuilt".
	ColorUnknown Color = iota

	// ColorBlue means the last build passed.
	ColorBlue

	// ColorRed means the last build failed.
	ColorRed

	// ColorYellow means the last build was unstable.
	ColorYellow

	// ColorDisabled means the job is disabled.
	ColorDisabled
)

// Color is the ball color Jenkins reports as the aggregate state of a job.
type Color int8

// ParseColor is parse color string
//
// If passed unsupported color, it will returns ColorUnknown
func ParseColor(raw string) Color {
	switch raw {
	case "blue":
		return ColorBlue
	case "red":
		return ColorRed
	case "yellow":
		return ColorYellow
	case "disabled":
		return ColorDisabled
	default:
		return ColorUnknown
	}
}

// UnmarshalText is unmarshal text as color
//
// This function always returns nil.
// This parses as ColorUnknown instead of returns error if unsupported color passed.
func (c *Color) UnmarshalText(text []byte) error {
	*c = ParseColor(string(text))
	return nil
}

// String is make Color a string
func (c Color) String() string {
	switch c {
	case ColorBlue:
		return "blue"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

const (
	// ResultRunning means the build has not finished yet.
	// This is the zero value because the API reports a JSON null, or an
	// empty string, as the result while a build is in progress.
	ResultRunning BuildResult = iota

	// ResultSuccess means the build finished without any problem.
	ResultSuccess

	// ResultUnstable means the build finished but something like a test did not pass.
	ResultUnstable

	// ResultFailure means the build failed.
	ResultFailure

	// ResultUnknown means the result string is none of the ones this probe understands.
	ResultUnknown
)

// BuildResult is the result of a single build.
type BuildResult int8

// ParseBuildResult is parse result string
//
// The empty string parses as ResultRunning, and any unsupported result
// parses as ResultUnknown.
func ParseBuildResult(raw string) BuildResult {
	switch raw {
	case "":
		return ResultRunning
	case "SUCCESS":
		return ResultSuccess
	case "UNSTABLE":
		return ResultUnstable
	case "FAILURE":
		return ResultFailure
	default:
		return ResultUnknown
	}
}

// UnmarshalText is unmarshal text as build result
//
// This function always returns nil.
func (r *BuildResult) UnmarshalText(text []byte) error {
	*r = ParseBuildResult(string(text))
	return nil
}

// String is make BuildResult a string
//
// A running build is reported as "RUNNING" even though the API reports it
// as a null or empty result.
func (r BuildResult) String() string {
	switch r {
	case ResultRunning:
		return "RUNNING"
	case ResultSuccess:
		return "SUCCESS"
	case ResultUnstable:
		return "UNSTABLE"
	case ResultFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText is marshal BuildResult as text
func (r BuildResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Build is the last build descriptor of a job.
type Build struct {
	Result    BuildResult `json:"result"`
	Timestamp int64       `json:"timestamp"`
}

// Time is the start time of the build.
func (b Build) Time() time.Time {
	return time.UnixMilli(b.Timestamp)
}

// Job is one job record of the Jenkins job list API.
//
// Which fields are filled depends on the tree query that was fetched.
// LastBuild is nil for a job that has never been built.
type Job struct {
	Name      string `json:"name"`
	Color     Color  `json:"color"`
	Disabled  bool   `json:"disabled"`
	LastBuild *Build `json:"lastBuild"`
}

type jobList struct {
	Jobs []Job `json:"jobs"`
}
