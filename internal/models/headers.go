package models

import "net/http"

// StreamHeaders returns the HTTP headers a player must send to open the
// channel's stream. It is empty for unprotected streams.
func (c Channel) StreamHeaders() http.Header {
	h := http.Header{}
	if c.Referer != nil {
		h.Set("Referer", *c.Referer)
	}
	if c.Origin != nil {
		h.Set("Origin", *c.Origin)
	}
	return h
}

// OptionalString returns nil for an empty string and a pointer to s otherwise.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
