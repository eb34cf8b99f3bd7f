package models

import "strings"

// Channel is a single playable stream from the channel directory.
// Referer and Origin are nil unless the source supplied a non-empty value.
type Channel struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	LogoURL string  `json:"logo_url"`
	Referer *string `json:"referer,omitempty"`
	Origin  *string `json:"origin,omitempty"`
}

// Valid reports whether the channel has a non-blank name and url.
func (c Channel) Valid() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.URL) != ""
}
