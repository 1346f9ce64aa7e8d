// Package local provides AI services that run without network access: a
// keyword classifier with fixed confidence and a hashed term-frequency
// embedder. They back the copilot when no API key is configured and serve as
// the fallback when a hosted call fails.
package local
