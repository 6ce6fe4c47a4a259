package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
	"github.com/firefly-engineering/proxyctl/internal/logging"
)

// Config holds probe configuration.
type Config struct {
	// URL is fetched through every candidate. A 2xx or 3xx answer passes.
	URL string

	// Timeout bounds each probe, including the proxy handshake.
	Timeout time.Duration

	// Transport builds the round tripper for one endpoint. Tests use it to
	// route through httptest servers.
	Transport func(ep *endpoint.Endpoint) http.RoundTripper
}

// Result is the outcome of probing one candidate.
type Result struct {
	Candidate string
	Endpoint  *endpoint.Endpoint
	Status    int
	Latency   time.Duration
	Err       error
}

// OK reports whether the probe passed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Prober runs probes.
type Prober struct {
	cfg Config
}

// New creates a Prober.
func New(cfg Config) *Prober {
	if cfg.Transport == nil {
		cfg.Transport = func(ep *endpoint.Endpoint) http.RoundTripper {
			return &http.Transport{
				Proxy:             http.ProxyURL(ep.URL()),
				DisableKeepAlives: true,
			}
		}
	}
	return &Prober{cfg: cfg}
}

// Probe fetches the configured URL through ep.
func (p *Prober) Probe(ctx context.Context, ep *endpoint.Endpoint) Result {
	res := Result{Candidate: ep.Host, Endpoint: ep}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		res.Err = fmt.Errorf("invalid probe URL: %w", err)
		return res
	}

	client := &http.Client{
		Transport: p.cfg.Transport(ep),
		Timeout:   p.cfg.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.Status = resp.StatusCode
	switch {
	case resp.StatusCode == http.StatusProxyAuthRequired:
		res.Err = fmt.Errorf("proxy authentication required")
	case resp.StatusCode >= 400:
		res.Err = fmt.Errorf("unexpected status %s", resp.Status)
	}
	logging.Debug("probe finished", "proxy", ep.Redacted(), "status", res.Status, "latency", res.Latency, "error", res.Err)
	return res
}

// ProbeAll resolves and probes every candidate in order.
func (p *Prober) ProbeAll(ctx context.Context, r endpoint.Resolver, candidates []string) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if ctx.Err() != nil {
			results = append(results, Result{Candidate: c, Err: ctx.Err()})
			continue
		}
		ep, err := r.Resolve(c)
		if err != nil {
			results = append(results, Result{Candidate: c, Err: err})
			continue
		}
		res := p.Probe(ctx, ep)
		res.Candidate = c
		results = append(results, res)
	}
	return results
}
