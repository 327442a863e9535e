package nagios

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Perfdata is one named counter of the metrics line.
//
// Warn and Crit are optional thresholds. They are only rendered when set;
// the value itself is never compared against them here.
type Perfdata struct {
	Label string
	Value int64

	Warn *int64
	Crit *int64
}

// String formats the counter as `label=value` or `label=value;warn;crit`.
func (p Perfdata) String() string {
	s := p.Label + "=" + strconv.FormatInt(p.Value, 10)
	if p.Warn != nil || p.Crit != nil {
		s += ";"
		if p.Warn != nil {
			s += strconv.FormatInt(*p.Warn, 10)
		}
		s += ";"
		if p.Crit != nil {
			s += strconv.FormatInt(*p.Crit, 10)
		}
	}
	return s
}

// Result is the complete outcome of one check invocation.
type Result struct {
	// Service is the label printed before the status on the verdict line.
	Service string

	Status  Status
	Message string

	// Perfdata is printed as one line prefixed with "|" after the verdict
	// line. Nothing is printed if it is empty.
	Perfdata []Perfdata

	// Body is printed line by line after the verdict and metrics lines,
	// whatever the status is.
	Body []string
}

// Print writes the result to w in the monitoring plugin convention:
// the verdict line, the optional metrics line, and the body.
func (r Result) Print(w io.Writer) error {
	if r.Service != "" {
		fmt.Fprintf(w, "%s ", r.Service)
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", r.Status, r.Message); err != nil {
		return err
	}

	if len(r.Perfdata) > 0 {
		xs := make([]string, len(r.Perfdata))
		for i, p := range r.Perfdata {
			xs[i] = p.String()
		}
		if _, err := fmt.Fprintf(w, "|%s\n", strings.Join(xs, " ")); err != nil {
			return err
		}
	}

	for _, line := range r.Body {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
