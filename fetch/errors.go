package fetch

import "errors"

var (
	// ErrDisallowed is returned when robots.txt forbids fetching a URL.
	ErrDisallowed = errors.New("fetch blocked by robots.txt")

	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidURL is returned for URLs without an http(s) scheme and host.
	ErrInvalidURL = errors.New("invalid URL")
)
