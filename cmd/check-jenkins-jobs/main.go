package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/macrat/check-jenkins/internal/classify"
	"github.com/macrat/check-jenkins/internal/jenkins"
	"github.com/macrat/check-jenkins/internal/meta"
	"github.com/macrat/check-jenkins/lib-nagios"
	"github.com/spf13/pflag"
)

func init() {
	jenkins.HTTPUserAgent = fmt.Sprintf("check-jenkins/%s health check", meta.Version)
}

const jobsHelp = `check-jenkins-jobs -- Jenkins job status probe in the monitoring plugin convention

Probes the job list API of the Jenkins server, buckets every job by its ball
color, and reports CRITICAL if any job failed, WARNING if any job is
unstable, and OK otherwise. The process exit code is the severity.

Usage: check-jenkins-jobs [OPTIONS...] JENKINS_URL

Options:
  -t, --timeout SECONDS   Timeout of the whole request in seconds. (default 10)
  -x, --proxy URL         HTTP proxy for reaching the server.
      --noproxy           Never use a proxy, even if the environment configures one.
  -k, --insecure          Skip TLS certificate verification.
  -u, --user USER         Username for HTTP basic authentication.
      --password PASS     Password for HTTP basic authentication.
  -n, --noperfdata        Do not print the metrics line.

  -w, --warning N         Unstable-job thresholds. Accepted for compatibility
  -c, --critical N        with older releases but currently not enforced.
      --failedwarn N      Failed-job thresholds. Accepted for compatibility
      --failedcrit N      with older releases but currently not enforced.

  -d, --debug             Print request tracing to stderr.
  -v, --version           Show version and exit.
  -h, --help              Show this help message and exit.
`

// JobsCommand is the aggregate-state probe.
type JobsCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	Target     string
	Timeout    float64
	Proxy      string
	NoProxy    bool
	Insecure   bool
	Username   string
	Password   string
	NoPerfdata bool
	Debug      bool

	// The threshold options are accepted but never consulted.
	UnstableWarn int
	UnstableCrit int
	FailedWarn   int
	FailedCrit   int

	ShowVersion bool
	ShowHelp    bool
}

var defaultJobsCommand = &JobsCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

func (cmd *JobsCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("check-jenkins-jobs", pflag.ContinueOnError)

	flags.Float64VarP(&cmd.Timeout, "timeout", "t", 10, "Request timeout in seconds")
	flags.StringVarP(&cmd.Proxy, "proxy", "x", "", "HTTP proxy URL")
	flags.BoolVar(&cmd.NoProxy, "noproxy", false, "Never use a proxy")
	flags.BoolVarP(&cmd.Insecure, "insecure", "k", false, "Skip TLS certificate verification")
	flags.StringVarP(&cmd.Username, "user", "u", "", "Username for HTTP basic auth")
	flags.StringVar(&cmd.Password, "password", "", "Password for HTTP basic auth")
	flags.BoolVarP(&cmd.NoPerfdata, "noperfdata", "n", false, "Do not print the metrics line")
	flags.IntVarP(&cmd.UnstableWarn, "warning", "w", 0, "Unstable jobs warning threshold")
	flags.IntVarP(&cmd.UnstableCrit, "critical", "c", 0, "Unstable jobs critical threshold")
	flags.IntVar(&cmd.FailedWarn, "failedwarn", 0, "Failed jobs warning threshold")
	flags.IntVar(&cmd.FailedCrit, "failedcrit", 0, "Failed jobs critical threshold")
	flags.BoolVarP(&cmd.Debug, "debug", "d", false, "Print request tracing to stderr")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(cmd.ErrStream, err)
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 3
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if cmd.Timeout <= 0 {
		fmt.Fprintln(cmd.ErrStream, "invalid argument: timeout have to be longer than 0 seconds.")
		return 3
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
		fmt.Fprint(cmd.ErrStream, jobsHelp)
		return 3
	case 1:
		cmd.Target = rest[0]
	default:
		fmt.Fprintln(cmd.ErrStream, "invalid argument: exactly one Jenkins URL is expected.")
		fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", args[0])
		return 3
	}

	return 0
}

func (cmd *JobsCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "check-jenkins-jobs version %s (%s)\n", meta.Version, meta.Commit)
}

func (cmd *JobsCommand) clientOptions() jenkins.ClientOptions {
	opts := jenkins.ClientOptions{
		Timeout:  time.Duration(cmd.Timeout * float64(time.Second)),
		Proxy:    cmd.Proxy,
		NoProxy:  cmd.NoProxy,
		Insecure: cmd.Insecure,
		Username: cmd.Username,
		Password: cmd.Password,
	}
	if cmd.Debug {
		opts.DebugOut = cmd.ErrStream
	}
	return opts
}

func (cmd *JobsCommand) unknown(err error) int {
	result := nagios.Result{
		Service: "JENKINS",
		Status:  nagios.StatusUnknown,
		Message: err.Error(),
	}
	result.Print(cmd.OutStream)
	return result.Status.ExitCode()
}

func (cmd *JobsCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		fmt.Fprint(cmd.OutStream, jobsHelp)
		return 0
	}

	client, err := jenkins.NewClient(cmd.Target, cmd.clientOptions())
	if err != nil {
		return cmd.unknown(err)
	}

	jobs, err := client.FetchSummary(context.Background())
	if err != nil {
		return cmd.unknown(err)
	}

	if cmd.Debug {
		for _, j := range jobs {
			if j.Color == jenkins.ColorUnknown {
				fmt.Fprintf(cmd.ErrStream, "debug: job %q has an unrecognized color\n", j.Name)
			}
		}
	}

	counts := classify.CountSummary(jobs)
	status, message := counts.Verdict()

	result := nagios.Result{
		Service: "JENKINS",
		Status:  status,
		Message: message,
	}
	if !cmd.NoPerfdata {
		result.Perfdata = counts.Perfdata()
	}
	result.Print(cmd.OutStream)

	return status.ExitCode()
}

func main() {
	os.Exit(defaultJobsCommand.Run(os.Args))
}
