package nagios

const (
	// StatusOK means the check succeeded and the target is healthy.
	StatusOK Status = iota

	// StatusWarning means the check succeeded but the target needs attention soon.
	StatusWarning

	// StatusCritical means the check succeeded and the target is in a state that
	// needs action right now.
	StatusCritical

	// StatusUnknown means the check itself failed, so nothing can be said about
	// the target. System administrator have to fix the probe settings or the way
	// to the target when this status.
	StatusUnknown
)

// Status is the severity of a single check invocation.
//
// The numeric value of a Status is its process exit code in the monitoring
// plugin convention, so the order of the constants is part of the contract.
type Status int8

// ParseStatus is parse status string
//
// If passed unsupported status, it will returns StatusUnknown
func ParseStatus(raw string) Status {
	switch raw {
	case "OK":
		return StatusOK
	case "WARNING":
		return StatusWarning
	case "CRITICAL":
		return StatusCritical
	default:
		return StatusUnknown
	}
}

// UnmarshalText is unmarshal text as status
//
// This function always returns nil.
// This parses as StatusUnknown instead of returns error if unsupported status passed.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// String is make Status a string
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText is marshal Status as text
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ExitCode is the process exit code for this status.
//
// Out-of-range values are reported as StatusUnknown.
func (s Status) ExitCode() int {
	if s < StatusOK || s > StatusUnknown {
		return int(StatusUnknown)
	}
	return int(s)
}
