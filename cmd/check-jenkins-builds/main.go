package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/macrat/check-jenkins/internal/classify"
	"github.com/macrat/check-jenkins/internal/jenkins"
	"github.com/macrat/check-jenkins/internal/meta"
	"github.com/macrat/check-jenkins/lib-nagios"
	"github.com/spf13/pflag"
)

func init() {
	jenkins.HTTPUserAgent = fmt.Sprintf("check-jenkins/%s health check", meta.Version)
}

const buildsHelp = `check-jenkins-builds -- Jenkins build freshness probe in the monitoring plugin convention

Probes the job list API of the Jenkins server and looks at the last build of
every enabled job that was built within the freshness window. Reports
CRITICAL if any of those builds failed, WARNING if any is unstable, and OK
otherwise, followed by one "[RESULT] job" line per counted job. The process
exit code is the severity.

Usage: check-jenkins-builds [OPTIONS...] JENKINS_URL

Options:
  -D, --days DAYS         Freshness window in days. Jobs whose last build is
                          older than this are ignored entirely. (default 1)
  -t, --timeout SECONDS   Timeout of the whole request in seconds. (default 10)
  -x, --proxy URL         HTTP proxy for reaching the server.
      --noproxy           Never use a proxy, even if the environment configures one.
  -k, --insecure          Skip TLS certificate verification.
  -u, --user USER         Username for HTTP basic authentication.
      --password PASS     Password for HTTP basic authentication.
  -n, --noperfdata        Do not print the metrics line.
  -d, --debug             Print request tracing to stderr.
  -v, --version           Show version and exit.
  -h, --help              Show this help message and exit.
`

// BuildsCommand is the freshness probe.
type BuildsCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	Target     string
	Days       float64
	Timeout    float64
	Proxy      string
	NoProxy    bool
	Insecure   bool
	Username   string
	Password   string
	NoPerfdata bool
	Debug      bool

	ShowVersion bool
	ShowHelp    bool
}

var defaultBuildsCommand = &BuildsCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

func (cmd *BuildsCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("check-jenkins-builds", pflag.ContinueOnError)

	flags.Float64VarP(&cmd.Days, "days", "D", 1, "Freshness window in days")
	flags.Float64VarP(&cmd.Timeout, "timeout", "t", 10, "Request timeout in seconds")
	flags.StringVarP(&cmd.Proxy, "proxy", "x", "", "HTTP proxy URL")
	flags.BoolVar(&cmd.NoProxy, "noproxy", false, "Never use a proxy")
	flags.BoolVarP(&cmd.Insecure, "insecure", "k", false, "Skip TLS certificate verification")
	flags.StringVarP(&cmd.Username, "user", "u", "", "Username for HTTP basic auth")
	flags.StringVar(&cmd.Password, "password", "", "Password for HTTP basic auth")
	flags.BoolVarP(&cmd.NoPerfdata, "noperfdata", "n", false, "Do not print the metrics line")
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

	if cmd.Days < 0 {
		fmt.Fprintln(cmd.ErrStream, "invalid argument: days have to be 0 or more.")
		return 3
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
		fmt.Fprint(cmd.ErrStream, buildsHelp)
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

func (cmd *BuildsCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "check-jenkins-builds version %s (%s)\n", meta.Version, meta.Commit)
}

// Window is the freshness window as a duration.
func (cmd *BuildsCommand) Window() time.Duration {
	return time.Duration(cmd.Days * 24 * float64(time.Hour))
}

func (cmd *BuildsCommand) clientOptions() jenkins.ClientOptions {
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

func (cmd *BuildsCommand) unknown(err error) int {
	result := nagios.Result{
		Service: "JENKINS BUILDS",
		Status:  nagios.StatusUnknown,
		Message: err.Error(),
	}
	result.Print(cmd.OutStream)
	return result.Status.ExitCode()
}

func (cmd *BuildsCommand) debugSkipped(jobs []jenkins.Job, now time.Time) {
	window := cmd.Window()
	for _, j := range jobs {
		switch {
		case j.LastBuild == nil:
			fmt.Fprintf(cmd.ErrStream, "debug: skip job %q: never built\n", j.Name)
		case now.Sub(j.LastBuild.Time()) > window:
			fmt.Fprintf(cmd.ErrStream, "debug: skip job %q: last built %s\n", j.Name, humanize.Time(j.LastBuild.Time()))
		case j.Disabled:
			fmt.Fprintf(cmd.ErrStream, "debug: skip job %q: disabled\n", j.Name)
		}
	}
}

func (cmd *BuildsCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		fmt.Fprint(cmd.OutStream, buildsHelp)
		return 0
	}

	client, err := jenkins.NewClient(cmd.Target, cmd.clientOptions())
	if err != nil {
		return cmd.unknown(err)
	}

	jobs, err := client.FetchLastBuilds(context.Background())
	if err != nil {
		return cmd.unknown(err)
	}

	now := time.Now()

	if cmd.Debug {
		cmd.debugSkipped(jobs, now)
	}

	counts, report := classify.CountBuilds(jobs, now, cmd.Window())
	status, message := counts.Verdict()

	result := nagios.Result{
		Service: "JENKINS BUILDS",
		Status:  status,
		Message: message,
		Body:    report,
	}
	if !cmd.NoPerfdata {
		result.Perfdata = counts.Perfdata()
	}
	result.Print(cmd.OutStream)

	return status.ExitCode()
}

func main() {
	os.Exit(defaultBuildsCommand.Run(os.Args))
}
