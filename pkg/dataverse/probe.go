package dataverse

import (
	"context"
	"net/http"
)

// ProbeResult is the outcome of the two-step connectivity check.
type ProbeResult struct {
	// Reachable is true when either probe step got an HTTP 200.
	Reachable bool
	// Authenticated is true when the token-scoped endpoint accepted the
	// configured credential. Always false for tokenless clients.
	Authenticated bool
}

// Probe checks connectivity to the repository. When the client carries a
// token it first tries the authenticated, role-scoped endpoint; if that
// step fails it falls back to the public version endpoint. The overall
// check succeeds if either step succeeds, and Authenticated reports
// separately whether the credential itself was valid — an invalid token
// downgrades the run to unauthenticated crawling rather than aborting.
func (c *Client) Probe(ctx context.Context, u URLs) ProbeResult {
	if c.Authenticated() {
		res := c.Fetch(ctx, u.MyData())
		if res.Err == nil && res.StatusCode == http.StatusOK {
			return ProbeResult{Reachable: true, Authenticated: true}
		}
	}

	res := c.Fetch(ctx, u.Version())
	return ProbeResult{Reachable: res.Err == nil && res.StatusCode == http.StatusOK}
}
