package jenkins

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/macrat/check-jenkins/internal/checkerr"
)

var (
	// HTTPUserAgent is the User-Agent header value of every request.
	HTTPUserAgent = "check-jenkins health check"
)

const (
	// TreeSummary asks the job list API for the aggregate state of each job.
	TreeSummary = "jobs[color,name]"

	// TreeLastBuild asks the job list API for the last build of each job.
	TreeLastBuild = "jobs[disabled,name,lastBuild[result,timestamp]]"
)

// ClientOptions is the transport configuration of a Client.
type ClientOptions struct {
	// Timeout is the limit for one whole request. Zero means no limit.
	Timeout time.Duration

	// Proxy is the URL of a HTTP proxy. The empty string means use the
	// environment proxy settings unless NoProxy is set.
	Proxy string

	// NoProxy disables the proxy even if the environment configures one.
	NoProxy bool

	// Insecure disables TLS certificate verification.
	Insecure bool

	// Username and Password are sent as HTTP basic auth when Username is
	// not empty.
	Username string
	Password string

	// DebugOut receives request tracing when not nil.
	DebugOut io.Writer
}

// Client fetches the job list API of one Jenkins server.
type Client struct {
	target   *url.URL
	client   *http.Client
	username string
	password string
	debug    io.Writer
}

// NewClient makes a Client for the server at rawURL.
//
// A trailing slash of the URL is stripped, and the scheme has to be http or
// https.
func NewClient(rawURL string, opts ClientOptions) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil {
		return nil, checkerr.New(ErrInvalidURL, err, "")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, checkerr.New(ErrInvalidURL, nil, `unsupported scheme %q: please use "http" or "https"`, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, checkerr.New(ErrInvalidURL, nil, "missing host name in %q", rawURL)
	}

	transport := &http.Transport{
		DisableKeepAlives: true,
		Proxy:             http.ProxyFromEnvironment,
	}
	if opts.NoProxy {
		transport.Proxy = nil
	} else if opts.Proxy != "" {
		p, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, checkerr.New(ErrInvalidURL, err, "invalid proxy URL")
		}
		transport.Proxy = http.ProxyURL(p)
	}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		target: u,
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		username: opts.Username,
		password: opts.Password,
		debug:    opts.DebugOut,
	}, nil
}

// Target is the server URL this client fetches from, without trailing slash.
func (c *Client) Target() *url.URL {
	return c.target
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.debug != nil {
		fmt.Fprintf(c.debug, "debug: "+format+"\n", args...)
	}
}

// FetchSummary fetches the job list with the aggregate color of each job.
func (c *Client) FetchSummary(ctx context.Context) ([]Job, error) {
	return c.fetch(ctx, TreeSummary)
}

// FetchLastBuilds fetches the job list with the last build of each job.
func (c *Client) FetchLastBuilds(ctx context.Context) ([]Job, error) {
	return c.fetch(ctx, TreeLastBuild)
}

func (c *Client) fetch(ctx context.Context, tree string) ([]Job, error) {
	u := *c.target
	u.Path += "/api/json"
	u.RawQuery = url.Values{"tree": {tree}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, checkerr.New(ErrCommunicate, err, "failed to prepare request")
	}
	req.Header.Set("User-Agent", HTTPUserAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.debugf("GET %s", u.String())

	st := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, checkerr.New(ErrCommunicate, err, "failed to fetch %s", c.target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, checkerr.New(ErrCommunicate, nil, "failed to fetch %s: server replied %s", c.target, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, checkerr.New(ErrCommunicate, err, "failed to read response from %s", c.target)
	}

	c.debugf("fetched %d bytes in %s", len(raw), time.Since(st).Round(time.Millisecond))

	var list jobList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, checkerr.New(ErrInvalidResponse, err, "failed to parse response from %s", c.target)
	}

	c.debugf("found %d jobs", len(list.Jobs))

	return list.Jobs, nil
}
