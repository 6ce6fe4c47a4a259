// Package probe checks candidate proxies by fetching a fixed URL through
// each of them.
//
// Probes run one after another with a per-request timeout. A candidate
// that cannot be resolved or answered with an error status is reported,
// not fatal; only a missing candidate list aborts a batch.
package probe
