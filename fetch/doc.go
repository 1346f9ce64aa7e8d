// Package fetch downloads documentation pages as plain text for the
// knowledge base.
//
// A Fetcher honors robots.txt for the wildcard user agent, waits on a rate
// limiter between requests and keeps only the main textual content of each
// page. Saved pages carry a sidecar file with their URL so ingestion can
// cite the original page.
package fetch
