package main_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	main "github.com/macrat/check-jenkins/cmd/check-jenkins-jobs"
)

func MakeTestCommand() (*main.JobsCommand, *bytes.Buffer) {
	buf := bytes.NewBuffer([]byte{})

	return &main.JobsCommand{
		OutStream: buf,
		ErrStream: buf,
	}, buf
}

func TestJobsCommand_ParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Args     []string
		Pattern  string
		ExitCode int
		Extra    func(*testing.T, *main.JobsCommand)
	}{
		{
			Args:     []string{"check-jenkins-jobs"},
			Pattern:  `^check-jenkins-jobs -- Jenkins job status probe`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check-jenkins-jobs", "--no-such-option", "http://localhost"},
			Pattern:  "^unknown flag: --no-such-option\n\nPlease see `check-jenkins-jobs -h` for more information\\.\n$",
			ExitCode: 3,
		},
		{
			Args:     []string{"check-jenkins-jobs", "http://a", "http://b"},
			Pattern:  `^invalid argument: exactly one Jenkins URL is expected\.`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check-jenkins-jobs", "-t", "0", "http://localhost"},
			Pattern:  `^invalid argument: timeout have to be longer than 0 seconds\.`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check-jenkins-jobs", "http://localhost:8080/"},
			Pattern:  `^$`,
			ExitCode: 0,
			Extra: func(t *testing.T, cmd *main.JobsCommand) {
				if cmd.Target != "http://localhost:8080/" {
					t.Errorf("unexpected target: %s", cmd.Target)
				}
				if cmd.Timeout != 10 {
					t.Errorf("unexpected default timeout: %f", cmd.Timeout)
				}
			},
		},
		{
			Args:     []string{"check-jenkins-jobs", "-w", "2", "-c", "5", "--failedwarn", "1", "--failedcrit", "3", "http://localhost"},
			Pattern:  `^$`,
			ExitCode: 0,
			Extra: func(t *testing.T, cmd *main.JobsCommand) {
				// the thresholds are accepted but never change the verdict.
				if cmd.UnstableWarn != 2 || cmd.UnstableCrit != 5 || cmd.FailedWarn != 1 || cmd.FailedCrit != 3 {
					t.Errorf("unexpected thresholds: %v", cmd)
				}
			},
		},
		{
			Args:     []string{"check-jenkins-jobs", "-v"},
			Pattern:  `^$`,
			ExitCode: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(strings.Join(tt.Args[1:], " "), func(t *testing.T) {
			cmd, buf := MakeTestCommand()

			if code := cmd.ParseArgs(tt.Args); code != tt.ExitCode {
				t.Errorf("unexpected exit code: %d", code)
			}

			if ok, err := regexp.MatchString(tt.Pattern, buf.String()); err != nil {
				t.Errorf("failed to match output: %s", err)
			} else if !ok {
				t.Errorf("unexpected output:\n%s", buf)
			}

			if tt.Extra != nil {
				tt.Extra(t, cmd)
			}
		})
	}
}

func TestJobsCommand_Run(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs":[
			{"name":"a","color":"blue"},
			{"name":"b","color":"blue"},
			{"name":"c","color":"red"},
			{"name":"d","color":"yellow"},
			{"name":"e","color":"disabled"}
		]}`))
	})
	mux.HandleFunc("/green/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs":[{"name":"a","color":"blue"},{"name":"b","color":"blue"}]}`))
	})
	mux.HandleFunc("/error/api/json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tests := []struct {
		Name     string
		Args     []string
		Expect   string
		ExitCode int
	}{
		{
			Name:     "critical",
			Args:     []string{"check-jenkins-jobs", server.URL},
			Expect:   "JENKINS CRITICAL: 1 jobs failed\n|jobs=5 passed=2 unstable=1 failed=1 disabled=1 running=0\n",
			ExitCode: 2,
		},
		{
			Name:     "critical-noperfdata",
			Args:     []string{"check-jenkins-jobs", "-n", server.URL},
			Expect:   "JENKINS CRITICAL: 1 jobs failed\n",
			ExitCode: 2,
		},
		{
			Name:     "ok",
			Args:     []string{"check-jenkins-jobs", server.URL + "/green"},
			Expect:   "JENKINS OK: 2 jobs passed\n|jobs=2 passed=2 unstable=0 failed=0 disabled=0 running=0\n",
			ExitCode: 0,
		},
		{
			Name:     "unknown-on-http-error",
			Args:     []string{"check-jenkins-jobs", server.URL + "/error"},
			Expect:   "JENKINS UNKNOWN: failed to fetch " + server.URL + "/error: server replied 503 Service Unavailable\n",
			ExitCode: 3,
		},
		{
			Name:     "unknown-on-refused-connection",
			Args:     []string{"check-jenkins-jobs", "http://localhost:54321"},
			Expect:   "",
			ExitCode: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.Name, func(t *testing.T) {
			cmd, buf := MakeTestCommand()

			if code := cmd.Run(tt.Args); code != tt.ExitCode {
				t.Errorf("unexpected exit code: %d", code)
			}

			if tt.Expect != "" && buf.String() != tt.Expect {
				t.Errorf("unexpected output:\nexpected: %q\n but got: %q", tt.Expect, buf.String())
			}
		})
	}
}

func TestJobsCommand_Run_version(t *testing.T) {
	cmd, buf := MakeTestCommand()

	if code := cmd.Run([]string{"check-jenkins-jobs", "-v"}); code != 0 {
		t.Errorf("unexpected exit code: %d", code)
	}

	if ok, _ := regexp.MatchString(`^check-jenkins-jobs version .+ \(.+\)\n$`, buf.String()); !ok {
		t.Errorf("unexpected output:\n%s", buf)
	}
}
