package fetcher

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport-level failure fetching url: DNS, timeout,
// connection reset, non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports directory text that matches none of the accepted shapes.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse channel directory: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// ErrBodyTooLarge reports a response body over the client's size limit.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// ErrEmptyDirectory reports a well-formed directory with no usable channels.
var ErrEmptyDirectory = errors.New("channel directory has no valid channels")

var (
	errNoChannelsField = errors.New(`no "channels" array`)
	errNotArray        = errors.New("not a JSON array")
)
