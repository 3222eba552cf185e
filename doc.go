// Package halite provides a batteries-included HTTP client layer around a
// narrow transport interface:
//
//   - Layered configuration: client defaults merged with per-call overrides
//     (headers, cookies, query params, form / json / raw bodies, timeouts)
//   - Deterministic body negotiation (form > json > raw) with a single derived
//     Content-Type that never clobbers a caller-supplied one
//   - Bounded, policy-driven redirect following with per-status method and
//     body rewrite rules and full ordered hop history on the final response
//   - Session continuity: Set-Cookie headers learned from responses are folded
//     back into the client's stored options for subsequent calls
//   - Middleware chain and request/response interceptors for cross-cutting
//     concerns (auth, logging, tracing, etc.)
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - Safe concurrent use of a single *Client instance (session state is
//     swapped copy-on-write under a lock, never mutated in place)
//   - The wire exchange is a pluggable collaborator; the merge engine, body
//     negotiation and redirect policy are pure and testable without a network
//
// Typical usage:
//
//	client := halite.New(
//	    halite.WithUserAgent("my-app/1.0"),
//	    halite.WithTimeout(5*time.Second, 30*time.Second),
//	    halite.WithRedirect(5, false),
//	)
//	resp, err := client.Get(ctx, "https://api.example.com/data", nil)
//
// Per-call options override the client's stored defaults without touching
// them; only response cookies feed back into the stored session state. The
// library avoids opinionated logging: provide a Logger (e.g. via
// WithSimpleLogger) + enable debug flags selectively for insight without
// noise.
package halite
