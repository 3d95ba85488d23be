// Package devproxy is the local development proxy used when aula's origin
// is localhost.
//
// In dev mode the client sends API calls to "<origin>/api/..." so the
// session cookies are scoped to the dev origin. This server listens on that
// origin and forwards everything under the prefix to the backend with the
// prefix stripped. Headers pass through untouched in both directions,
// including Cookie and Set-Cookie.
//
// Besides the proxy route the server answers /healthz and exposes request
// counts and latencies on /metrics in the Prometheus text format.
package devproxy
